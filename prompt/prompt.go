// Package prompt converts a free-text song request into structured fields
// for the generation pipeline. Pure keyword matching, no model involved.
package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

type Parsed struct {
	Genre       string `json:"genre"`
	Genre2      string `json:"genre2,omitempty"`
	Blend       int    `json:"blend,omitempty"`
	Mood        string `json:"mood"`
	Theme       string `json:"theme"`
	BPM         int    `json:"bpm"`
	Voice       string `json:"voice"`
	MusicPrompt string `json:"music_prompt"`
}

// Options carry UI overrides. Zero values mean "detect from the prompt".
type Options struct {
	Genre  string // primary genre; "" or "auto" detects from the prompt
	Genre2 string // secondary genre for blending
	Blend  int    // 0-100, percentage of Genre2 in the blend
	BPM    int    // 0 detects from the prompt or genre default
}

type keywordEntry struct {
	label    string
	keywords []string
}

// Ordered so the first match wins, like iterating the Python dict.
var genreKeywords = []keywordEntry{
	// Hip-Hop / Urban
	{"lo-fi", []string{"lofi", "lo-fi", "lo fi", "chillhop"}},
	{"hip-hop", []string{"hip hop", "hiphop", "rap", "beats"}},
	{"boom-bap", []string{"boom bap", "boom-bap", "boomba", "90s hip hop", "ny rap", "old school rap"}},
	{"trap", []string{"trap", "808", "hi-hat", "mumble"}},
	{"drill", []string{"drill", "uk drill", "chicago drill"}},
	// Latin
	{"reggaeton", []string{"reggaeton", "reggeaton", "perreo", "urbano", "latin urban", "dembow"}},
	{"salsa", []string{"salsa", "cuban", "clave", "timba"}},
	{"bachata", []string{"bachata", "bachata romantica", "dominican romance"}},
	{"merengue", []string{"merengue", "perico ripiao"}},
	{"cumbia", []string{"cumbia", "colombian", "cumbiamba"}},
	{"latin pop", []string{"latin pop", "latin", "spanish pop", "pop en espanol"}},
	// Pop / Rock
	{"pop", []string{"pop", "catchy", "radio"}},
	{"rock", []string{"rock", "guitar", "band"}},
	{"indie", []string{"indie", "indie rock", "alternative rock", "lo-fi rock"}},
	{"punk", []string{"punk", "hardcore", "emo"}},
	{"metal", []string{"metal", "heavy", "thrash", "death metal"}},
	{"alternative", []string{"alternative", "alt rock", "grunge"}},
	// Electronic
	{"electronic", []string{"electronic", "edm", "synth"}},
	{"house", []string{"house", "deep house", "chicago house", "garage"}},
	{"techno", []string{"techno", "industrial", "berlin techno", "rave"}},
	{"dubstep", []string{"dubstep", "wobble", "brostep"}},
	{"drum & bass", []string{"drum and bass", "dnb", "jungle", "liquid dnb"}},
	{"synthwave", []string{"synthwave", "retrowave", "80s synth", "vaporwave", "outrun"}},
	{"ambient", []string{"ambient", "atmospheric", "drone", "meditation", "sleep"}},
	// Soul / R&B
	{"r&b", []string{"r&b", "rnb", "neo soul"}},
	{"soul", []string{"soul", "soulful", "motown"}},
	{"funk", []string{"funk", "funky", "groove"}},
	{"blues", []string{"blues", "delta blues", "chicago blues"}},
	{"gospel", []string{"gospel", "church", "worship", "spiritual"}},
	// World / Other
	{"jazz", []string{"jazz", "swing", "bebop"}},
	{"classical", []string{"classical", "orchestral", "symphony", "piano"}},
	{"reggae", []string{"reggae", "rasta", "jamaican"}},
	{"dancehall", []string{"dancehall", "dance hall", "patois"}},
	{"afrobeats", []string{"afrobeats", "afro", "afropop", "amapiano"}},
	{"bossa nova", []string{"bossa nova", "bossanova", "brazilian jazz", "samba"}},
	{"folk", []string{"folk", "acoustic folk", "singer songwriter", "bluegrass"}},
	{"country", []string{"country", "nashville", "honky tonk", "outlaw country"}},
	{"k-pop", []string{"k-pop", "kpop", "korean pop"}},
	{"disco", []string{"disco", "70s dance", "funk disco"}},
}

var moodKeywords = []keywordEntry{
	{"chill", []string{"chill", "relaxed", "calm", "mellow", "peaceful", "soft"}},
	{"happy", []string{"happy", "joyful", "upbeat", "cheerful", "fun", "bright"}},
	{"sad", []string{"sad", "melancholy", "heartbreak", "lonely", "blue"}},
	{"energetic", []string{"energetic", "hype", "intense", "powerful", "driving"}},
	{"romantic", []string{"romantic", "love", "tender", "warm", "sweet"}},
	{"dark", []string{"dark", "moody", "mysterious", "haunting", "eerie"}},
	{"motivational", []string{"motivational", "inspiring", "epic", "uplifting", "triumphant"}},
}

var voiceKeywords = []keywordEntry{
	{"male", []string{"male", "man", "boy", "deep voice", "baritone"}},
	{"female", []string{"female", "woman", "girl", "soprano", "alto"}},
}

var defaultBPM = map[string]int{
	"lo-fi": 85, "hip-hop": 90, "boom-bap": 90, "trap": 140, "drill": 140,
	"reggaeton": 95, "salsa": 180, "bachata": 120, "merengue": 155, "cumbia": 100, "latin pop": 110,
	"pop": 120, "rock": 130, "indie": 120, "punk": 165, "metal": 150, "alternative": 125,
	"electronic": 128, "house": 128, "techno": 138, "dubstep": 140, "drum & bass": 174,
	"synthwave": 110, "ambient": 70,
	"r&b": 95, "soul": 85, "funk": 110, "blues": 75, "gospel": 90,
	"jazz": 100, "classical": 80, "reggae": 75, "dancehall": 90, "afrobeats": 102,
	"bossa nova": 130, "folk": 90, "country": 100, "k-pop": 120, "disco": 120,
}

var bpmPattern = regexp.MustCompile(`(\d{2,3})\s*(?:bpm|beats)`)

// Genres and Moods are the selectable values, in table order, for UIs.
var (
	Genres = labels(genreKeywords)
	Moods  = labels(moodKeywords)
)

func labels(entries []keywordEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.label
	}
	return out
}

// Parse converts a free-text prompt plus UI overrides into structured fields.
func Parse(text string, opts Options) Parsed {
	lower := strings.ToLower(text)

	genre := opts.Genre
	if genre == "" || genre == "auto" {
		genre = match(lower, genreKeywords, "pop")
	}
	mood := match(lower, moodKeywords, "chill")
	voice := match(lower, voiceKeywords, "neutral")

	bpm := opts.BPM
	if bpm <= 0 {
		if m := bpmPattern.FindStringSubmatch(lower); m != nil {
			fmt.Sscanf(m[1], "%d", &bpm)
		} else if d, ok := defaultBPM[genre]; ok {
			bpm = d
		} else {
			bpm = 100
		}
	}

	theme := strings.TrimSpace(text)

	p := Parsed{
		Genre: genre,
		Mood:  mood,
		Theme: theme,
		BPM:   bpm,
		Voice: voice,
	}

	useBlend := opts.Genre2 != "" && opts.Genre2 != "None" && opts.Genre2 != "auto" && opts.Blend > 0
	if useBlend {
		p.Genre2 = opts.Genre2
		p.Blend = opts.Blend
		p.MusicPrompt = fmt.Sprintf("%d%% %s %d%% %s fusion, %s mood, %s, %d bpm, high quality audio",
			100-opts.Blend, genre, opts.Blend, opts.Genre2, mood, theme, bpm)
	} else {
		p.MusicPrompt = fmt.Sprintf("%s %s music, %s, %d bpm, high quality audio", genre, mood, theme, bpm)
	}

	return p
}

func match(text string, entries []keywordEntry, fallback string) string {
	for _, e := range entries {
		for _, kw := range e.keywords {
			if strings.Contains(text, kw) {
				return e.label
			}
		}
	}
	return fallback
}

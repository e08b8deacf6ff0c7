package song

// moodNarrations give the finished song a one-line producer's note.
var moodNarrations = map[string]string{
	"chill":        "I'm laying down something smooth and mellow — minimal beats, soft textures.",
	"happy":        "I'm building something bright and upbeat — energy that makes you move.",
	"sad":          "I'm crafting something heavy and melancholic — dusty chops, slow rhythm.",
	"energetic":    "I'm pushing the tempo hard — high energy, punchy drums, wall of sound.",
	"romantic":     "I'm going warm and tender — lush chords, soft groove.",
	"dark":         "I'm going deep and mysterious — minor keys, haunting atmosphere.",
	"motivational": "I'm building something powerful — rising energy, anthemic feel.",
}

// suggestions are per-genre follow-up prompts offered with the result.
var suggestions = map[string][]string{
	"lo-fi":      {"ADD VINYL CRACKLE", "SLOWER BPM", "ADD RAIN SOUNDS", "MAKE IT SADDER"},
	"pop":        {"ADD A HOOK", "FASTER TEMPO", "MAKE IT ROMANTIC", "TRY FEMALE VOCALS"},
	"rock":       {"ADD GUITAR SOLO", "HEAVIER DRUMS", "MAKE IT EPIC", "ADD DISTORTION"},
	"jazz":       {"ADD JAZZ TRUMPET", "SLOWER SWING", "MORE BLUESY", "ADD PIANO SOLO"},
	"hip-hop":    {"ADD BOOM BAP", "CHANGE THE TEMPO", "MORE BASS", "ADD TRAP HATS"},
	"electronic": {"ADD A DROP", "MORE REVERB", "MAKE IT AMBIENT", "ADD SYNTH LEAD"},
}

var defaultSuggestions = []string{"CHANGE THE TEMPO", "DIFFERENT VOICE", "MAKE IT DARKER", "ADD INSTRUMENTS"}

func Narration(mood string) string {
	if n, ok := moodNarrations[mood]; ok {
		return n
	}
	return "Here's your track."
}

func Suggestions(genre string) []string {
	if s, ok := suggestions[genre]; ok {
		return s
	}
	return defaultSuggestions
}

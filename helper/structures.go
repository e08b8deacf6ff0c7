package helper

// genreStructures maps each genre to its section layout. Latin genres use
// Spanish section names so the headers match the lyrics language.
var genreStructures = map[string][]string{
	// Hip-Hop family
	"hip-hop":  {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Outro]"},
	"boom-bap": {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Outro]"},
	"trap":     {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Bridge]", "[Hook]", "[Outro]"},
	"drill":    {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Outro]"},
	"lo-fi":    {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Outro]"},
	// Pop / Rock family
	"pop":         {"[Intro]", "[Verse 1]", "[Pre-Chorus]", "[Chorus]", "[Verse 2]", "[Pre-Chorus]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"indie":       {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"alternative": {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"rock":        {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Guitar Solo]", "[Bridge]", "[Chorus]", "[Outro]"},
	"metal":       {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Guitar Solo]", "[Bridge]", "[Chorus]", "[Outro]"},
	"punk":        {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"folk":        {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"country":     {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"disco":       {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	// Soul / R&B family
	"r&b":    {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"soul":   {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"funk":   {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"blues":  {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Verse 3]", "[Outro]"},
	"gospel": {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"jazz":   {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Solo]", "[Hook]", "[Outro]"},
	// Electronic family
	"electronic":  {"[Intro]", "[Verse 1]", "[Build-Up]", "[Drop]", "[Break]", "[Build-Up]", "[Drop]", "[Outro]"},
	"house":       {"[Intro]", "[Verse 1]", "[Build-Up]", "[Drop]", "[Break]", "[Build-Up]", "[Drop]", "[Outro]"},
	"techno":      {"[Intro]", "[Build-Up]", "[Drop]", "[Break]", "[Build-Up]", "[Drop]", "[Outro]"},
	"dubstep":     {"[Intro]", "[Verse 1]", "[Build-Up]", "[Drop]", "[Break]", "[Build-Up]", "[Drop]", "[Outro]"},
	"drum & bass": {"[Intro]", "[Verse 1]", "[Build-Up]", "[Drop]", "[Break]", "[Drop]", "[Outro]"},
	"synthwave":   {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"ambient":     {"[Intro]", "[Part 1]", "[Part 2]", "[Part 3]", "[Outro]"},
	// Latin family
	"bachata":   {"[Intro]", "[Verso 1]", "[Coro]", "[Verso 2]", "[Coro]", "[Puente]", "[Coro]", "[Final]"},
	"salsa":     {"[Intro]", "[Verso 1]", "[Coro]", "[Verso 2]", "[Coro]", "[Mambo]", "[Coro]", "[Final]"},
	"merengue":  {"[Intro]", "[Verso 1]", "[Coro]", "[Verso 2]", "[Coro]", "[Puente]", "[Coro]", "[Final]"},
	"cumbia":    {"[Intro]", "[Verso 1]", "[Coro]", "[Verso 2]", "[Coro]", "[Puente]", "[Coro]", "[Final]"},
	"reggaeton": {"[Intro]", "[Verso 1]", "[Coro]", "[Verso 2]", "[Coro]", "[Break]", "[Coro]", "[Final]"},
	"latin pop": {"[Intro]", "[Verso 1]", "[Pre-Coro]", "[Coro]", "[Verso 2]", "[Pre-Coro]", "[Coro]", "[Puente]", "[Coro]", "[Final]"},
	// World / Other
	"bossa nova": {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"reggae":     {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"dancehall":  {"[Intro]", "[Verse 1]", "[Hook]", "[Verse 2]", "[Hook]", "[Outro]"},
	"afrobeats":  {"[Intro]", "[Verse 1]", "[Chorus]", "[Verse 2]", "[Chorus]", "[Bridge]", "[Chorus]", "[Outro]"},
	"k-pop":      {"[Intro]", "[Verse 1]", "[Pre-Chorus]", "[Chorus]", "[Verse 2]", "[Pre-Chorus]", "[Chorus]", "[Bridge]", "[Rap Break]", "[Chorus]", "[Outro]"},
	"classical":  {"[Intro]", "[Part 1]", "[Part 2]", "[Part 3]", "[Outro]"},
}

// Compact prompt for small models; fewer rules produce more reliable output.
const systemPromptSmall = `You are a professional music co-writer. Output ONLY valid JSON — no markdown, no explanations.

JSON SCHEMA (copy this structure exactly):
{"assistant_message":"one sentence about the song","song":{"title":"Song Title Here","voice":"neutral","genre":"pop","bpm":120,"mood_tags":["sad","emotional"],"sound_description":"soft piano, slow tempo, melancholic strings"},"lyrics":{"structure":["Verse 1","Chorus","Verse 2","Chorus","Bridge","Chorus"],"text":"[Verse 1]\nLine one of verse here\nLine two of verse here\nLine three of verse here\nLine four of verse here\n\n[Chorus]\nLine one of chorus here\nLine two of chorus here\nLine three of chorus here\nLine four of chorus here\n\n[Verse 2]\nLine one of second verse\nLine two of second verse\nLine three of second verse\nLine four of second verse\n\n[Chorus]\nLine one of chorus here\nLine two of chorus here\nLine three of chorus here\nLine four of chorus here\n\n[Bridge]\nLine one of bridge here\nLine two of bridge here\nLine three of bridge here\nLine four of bridge here\n\n[Chorus]\nLine one of chorus here\nLine two of chorus here\nLine three of chorus here\nLine four of chorus here"},"production_notes":{"arrangement":"describe arrangement","mix_notes":"describe mix"},"need_clarification":false,"clarifying_question":""}

CRITICAL RULES:
1. LANGUAGE: If lyrics_language=Spanish → ALL lyrics in Spanish. Portuguese → Portuguese. Korean → Korean.
2. STRUCTURE: The "text" field MUST contain the section headers from song_structure (e.g. [Verse 1], [Chorus]) on their own lines, exactly as shown in the schema above. Replace each section with real lyrics — keep the \n format.
3. LYRICS: Write real, emotional, specific lyrics. Minimum 4 lines per section. NO placeholder text like "Line one here".
4. JSON: Output ONLY the JSON object. Nothing before or after.`

const systemPrompt = `You are "Secret Helper", a music co-writer inside a song generator app.
Your job: help the user create a complete song concept and lyrics that match their request and UI settings.

ABSOLUTE RULES:
- Output VALID JSON only. No markdown fences. No extra keys beyond the schema.
- If you cannot comply, output valid JSON with need_clarification=true and a clarifying_question.
- Respect UI settings (voice/genre/bpm/model_size/instrumental_only) unless user explicitly asks to change.
- Never write generic filler or clichés. Forbidden phrases (and close variants):
  "sun sets", "broken heart", "tears fall", "ghosts of memories",
  "empty inside", "without you", "pain remains", "my world is cold".
- Lyrics must include specificity: at least 2 concrete objects + 2 actions + 1 sensory detail per verse.
- Keep a consistent POV and coherent story arc across all sections.
- Hook must be strong, repeatable, emotionally direct. No corny lines.
- If instrumental_only is true: lyrics.text must be "" and assistant_message describes the arrangement.
- LANGUAGE RULE: Write lyrics in the language specified by "lyrics_language" in the user message.
  bachata/salsa/merengue/cumbia/reggaeton/latin pop → Spanish.
  bossa nova → Portuguese. k-pop → Korean. All others → English.
  Never ignore this rule even if the user's request is in English.

LYRIC FORMAT (MANDATORY):
- Use EXACTLY the section headers listed in "song_structure" in the user message.
- Each section header must be on its own line with nothing else on that line.
- Ad-libs go inline in parentheses: (yeah), (uh), (ayy), (let's go), (no more)
- Vocal performance guides go inline in brackets after a word: [raspy], [whisper], [falsetto], [spoken], [ad lib]
- Example format:
  [Intro]
  Standing at the edge [spoken]
  [Verse 1]
  I count the tiles on the kitchen floor (one, two, three)
  The coffee's cold, been sitting since you left [raspy]
  (yeah) Every shelf still holds the shape of you
  [Chorus]
  Numb after use, hollow as a drum (hollow, hollow)
  ...
- The lyrics.structure JSON field must list section names without brackets matching what you used in text.

QUALITY RULES by model_size:
- small:  shorter output, simpler rhyme, structure=[Verse 1,Chorus,Verse 2,Chorus], minimal notes.
- medium: full structure, polished, consistent theme, moderate detail.
- large:  artist-grade; stronger imagery; optional internal rhymes; tighter cadence; deep production notes.

OUTPUT JSON SHAPE (MUST MATCH EXACTLY — no extra keys, no markdown wrapper):
{"assistant_message":"string","song":{"title":"string","voice":"string","genre":"string","bpm":0,"mood_tags":["string"],"sound_description":"string"},"lyrics":{"structure":["Verse 1","Chorus","Verse 2","Chorus","Bridge","Chorus"],"text":"string"},"production_notes":{"arrangement":"string","mix_notes":"string"},"need_clarification":false,"clarifying_question":""}`

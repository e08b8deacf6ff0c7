package lyrics

import (
	"fmt"
	"math/rand"
	"strings"
)

var wordBanks = map[string][]string{
	"lo-fi":      {"midnight", "lamplight", "coffee", "vinyl", "quiet", "pages", "rain"},
	"pop":        {"heart", "light", "dance", "dream", "shine", "fire", "sky"},
	"rock":       {"road", "steel", "thunder", "fire", "storm", "fight", "speed"},
	"jazz":       {"smoke", "blue", "notes", "moon", "rain", "silk", "glass"},
	"classical":  {"grace", "silence", "echo", "breath", "time", "soul", "wave"},
	"hip-hop":    {"grind", "real", "streets", "hustle", "truth", "gold", "bars"},
	"electronic": {"pulse", "waves", "neon", "signal", "current", "code", "grid"},
	"r&b":        {"honey", "skin", "flame", "night", "close", "hold", "slow"},
	"country":    {"dust", "truck", "home", "field", "sky", "road", "creek"},
	"metal":      {"chaos", "iron", "rage", "void", "shadow", "blaze", "wraith"},
}

var moodPhrases = map[string][]string{
	"chill":        {"take it slow", "breathe it in", "let it go", "find your peace"},
	"happy":        {"feel it now", "light up the sky", "you and I", "let's fly"},
	"sad":          {"can't hold on", "it all fades", "alone again", "I miss you"},
	"energetic":    {"push it hard", "burn it bright", "never stop", "feel alive"},
	"romantic":     {"hold me close", "just us two", "in your arms", "never let go"},
	"dark":         {"lost in shadows", "truth lies deep", "no way back", "the descent"},
	"motivational": {"rise up now", "break the chain", "reach the sky", "you can fly"},
}

// Template produces lyrics instantly from genre word banks and mood phrases.
// Always succeeds; the final fallback in the backend chain.
func Template(theme, genre, mood string) string {
	return templateWithRand(theme, genre, mood, rand.New(rand.NewSource(rand.Int63())))
}

func templateWithRand(theme, genre, mood string, rng *rand.Rand) string {
	words, ok := wordBanks[genre]
	if !ok {
		words = wordBanks["pop"]
	}
	phrases, ok := moodPhrases[mood]
	if !ok {
		phrases = moodPhrases["chill"]
	}

	fields := strings.Fields(theme)
	topic := strings.Join(fields[:min(3, len(fields))], " ")

	w := func(n int) string {
		picks := rng.Perm(len(words))[:min(n, len(words))]
		parts := make([]string, len(picks))
		for i, p := range picks {
			parts[i] = words[p]
		}
		return strings.Join(parts, ", ")
	}
	one := func() string { return words[rng.Intn(len(words))] }
	p := func() string { return phrases[rng.Intn(len(phrases))] }

	verse1 := fmt.Sprintf("%s, thinking of %s\n%s, underneath the %s\n%s, chasing after %s\n%s, till the morning comes",
		w(3), topic, p(), one(), w(2), one(), p())
	chorus := fmt.Sprintf("Oh, %s, %s\nYeah, %s, %s\n%s, %s\nOh, %s, %s",
		topic, p(), one(), p(), w(2), p(), one(), p())
	verse2 := fmt.Sprintf("%s, lost in %s\n%s, %s in my mind\n%s, %s\n%s, %s",
		w(3), topic, p(), one(), w(2), p(), one(), p())
	bridge := fmt.Sprintf("Maybe it's the %s\nMaybe it's the %s\n%s\nYeah, %s",
		one(), one(), p(), p())

	return fmt.Sprintf("[Verse 1]\n%s\n\n[Chorus]\n%s\n\n[Verse 2]\n%s\n\n[Chorus]\n%s\n\n[Bridge]\n%s\n\n[Chorus]\n%s",
		verse1, chorus, verse2, chorus, bridge, chorus)
}

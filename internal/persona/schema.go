// Package persona holds the marketing-persona questionnaire the vision model
// fills in, and the lenient parser that turns its raw output into something
// displayable.
package persona

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	FieldNumberOfPeople    = "number_of_people"
	FieldPeople            = "people"
	FieldRecordingLocation = "recording_location"
	FieldMotivation        = "motivation"
	FieldOccasion          = "occasion"
	FieldViralMood         = "viral_mood"
	FieldRelationship      = "relationship"
	FieldGender            = "gender"
	FieldAge               = "age"
	FieldAttire            = "attire"
	FieldError             = "error"

	Other = "other"
)

type Field struct {
	Key    string
	Values []string
}

// ScalarFields are the top-level single-choice fields, in rubric order.
var ScalarFields = []Field{
	{Key: FieldNumberOfPeople, Values: []string{"1", "2", "3", "4", "5", ">5"}},
	{Key: FieldRecordingLocation, Values: []string{
		"home", "living room", "kitchen", "bedroom", "garden", "outdoor", "party", "office",
		"meeting room", "open space", "stage", "car", Other,
	}},
	{Key: FieldMotivation, Values: []string{"personal", "professional", Other}},
	{Key: FieldOccasion, Values: []string{
		"birthday", "wedding", "engagement", "birth", "baptism", "love message", "mother's day",
		"father's day", "farewell", "get well", "fun video", "graduation", "work anniversary",
		"promotion", "new job", "success", "team celebration", "product presentation",
		"company presentation", "conference", "retirement", "new year", "christmas",
		"valentine's day", "halloween", "easter", "international women's day", Other,
	}},
	{Key: FieldViralMood, Values: []string{
		"happy", "excited", "fun", "proud", "grateful", "emotional", "festive", "nostalgic",
		"loving", "motivated", "inspirational", "formal", Other,
	}},
	{Key: FieldRelationship, Values: []string{
		"mother", "father", "sister", "brother", "spouse", "partner", "husband", "wife", "child",
		"relative", "boyfriend", "girlfriend", "fiancé", "friend", "best friend", "colleague",
		"boss", "employee", "teacher", "student", "client", "lead", Other,
	}},
}

// PersonFields are the per-person attributes inside "people".
var PersonFields = []Field{
	{Key: FieldGender, Values: []string{"female", "male", Other}},
	{Key: FieldAge, Values: []string{
		"0–2 years", "3–12 years", "13–17 years", "18–24 years", "25–34 years",
		"35–49 years", "50–64 years", ">=65 years", Other,
	}},
	{Key: FieldAttire, Values: []string{"casual", "formal", "business", "sport", "party", "uniform", Other}},
}

var emojis = map[string]string{
	FieldNumberOfPeople:    "👤",
	FieldPeople:            "🧑‍🤝‍🧑",
	FieldGender:            "⚧️",
	FieldAge:               "⏳",
	FieldAttire:            "👔",
	FieldRecordingLocation: "📍",
	FieldMotivation:        "💡",
	FieldOccasion:          "🎉",
	FieldViralMood:         "😊",
	FieldRelationship:      "❤️",
	FieldError:             "⚠️",
}

func Emoji(key string) string {
	return emojis[key]
}

var titleCaser = cases.Title(language.Und)

// Title turns "recording_location" into "Recording Location".
func Title(key string) string {
	return titleCaser.String(strings.ReplaceAll(key, "_", " "))
}

func lookup(fields []Field, key string) (Field, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Allowed reports whether value is one of the field's choices. Case, outer
// whitespace and hyphen versus en dash are ignored.
func (f Field) Allowed(value string) bool {
	v := normalize(value)
	for _, allowed := range f.Values {
		if normalize(allowed) == v {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("–", "-", "—", "-", "’", "'").Replace(s)
}

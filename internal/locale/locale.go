// Package locale holds the user-facing copy in every supported language.
package locale

import (
	"fmt"
	"strings"
)

const (
	English = "en"
	French  = "fr"
)

type Key string

const (
	PageTitle        Key = "page_title"
	Tagline          Key = "tagline"
	MainFeatures     Key = "main_features"
	FeatureVideo     Key = "feature_video"
	FeatureInsights  Key = "feature_insights"
	UploadLabel      Key = "upload_label"
	UploadHint       Key = "upload_hint"
	AnalyzeButton    Key = "analyze_button"
	InProgress       Key = "in_progress"
	Preprocessing    Key = "preprocessing"
	FrameExtracted   Key = "frame_extracted"
	FrameUnavailable Key = "frame_unavailable"
	UnsupportedVideo Key = "unsupported_video"
	NoAudio          Key = "no_audio"
	AudioFailed      Key = "audio_failed"
	Transcription    Key = "transcription"
	SpeechUnloaded   Key = "speech_unloaded"
	VisionUnloaded   Key = "vision_unloaded"
	AnalysisResults  Key = "analysis_results"
	AnalysisError    Key = "analysis_error"
	DecodeError      Key = "decode_error"
	SchemaIssues     Key = "schema_issues"
	FaceHint         Key = "face_hint"
	RunFailed        Key = "run_failed"
	CleaningUp       Key = "cleaning_up"
	CleanupDone      Key = "cleanup_done"
	RecentRuns       Key = "recent_runs"
	NoRuns           Key = "no_runs"
	Person           Key = "person"
	TooLarge         Key = "too_large"
)

var catalogs = map[string]map[Key]string{
	English: {
		PageTitle:        "🤖 🎥 AI-Powered Video Analyzer",
		Tagline:          "Marketing Insights from User Content",
		MainFeatures:     "🔍 Main Features",
		FeatureVideo:     "🎥 Video Content Analysis",
		FeatureInsights:  "🧠 Key Information Extraction",
		UploadLabel:      "📁 Upload your video",
		UploadHint:       "⬆️ Please upload a video to start the analysis",
		AnalyzeButton:    "Analyze",
		InProgress:       "Video analysis in progress...",
		Preprocessing:    "🧠 Video preprocessing in progress…",
		FrameExtracted:   "🖼️ Frame extracted",
		FrameUnavailable: "⚠️ Unable to extract the frame.",
		UnsupportedVideo: "⚠️ Unsupported video format. Use mp4, mov, avi or mkv.",
		NoAudio:          "🔇 No audio to transcribe.",
		AudioFailed:      "🔇 The audio track could not be extracted.",
		Transcription:    "📝 Audio transcription",
		SpeechUnloaded:   "⚠️ Speech model unavailable, transcription skipped.",
		VisionUnloaded:   "❌ Vision model unavailable, analysis cannot proceed.",
		AnalysisResults:  "📊 Analysis results",
		AnalysisError:    "⚠️ Analysis error",
		DecodeError:      "Error while reading the JSON result.",
		SchemaIssues:     "Answers outside the questionnaire",
		FaceHint:         "Face detection counted %d face(s).",
		RunFailed:        "🔴 An error occurred during the analysis: %s",
		CleaningUp:       "🧹 Cleaning up temporary files...",
		CleanupDone:      "✅ Cleanup completed.",
		RecentRuns:       "Recent runs",
		NoRuns:           "No runs yet.",
		Person:           "Person %d",
		TooLarge:         "The video exceeds the maximum upload size.",
	},
	French: {
		PageTitle:        "🤖 🎥 Analyseur vidéo par IA",
		Tagline:          "Insights marketing à partir du contenu utilisateur",
		MainFeatures:     "🔍 Fonctionnalités principales",
		FeatureVideo:     "🎥 Analyse du contenu vidéo",
		FeatureInsights:  "🧠 Extraction des informations clés",
		UploadLabel:      "📁 Téléversez votre vidéo",
		UploadHint:       "⬆️ Veuillez téléverser une vidéo pour lancer l'analyse",
		AnalyzeButton:    "Analyser",
		InProgress:       "Analyse de la vidéo en cours...",
		Preprocessing:    "🧠 Prétraitement de la vidéo en cours…",
		FrameExtracted:   "🖼️ Image extraite",
		FrameUnavailable: "⚠️ Impossible d'extraire l'image.",
		UnsupportedVideo: "⚠️ Format vidéo non pris en charge. Utilisez mp4, mov, avi ou mkv.",
		NoAudio:          "🔇 Aucun audio à transcrire.",
		AudioFailed:      "🔇 La piste audio n'a pas pu être extraite.",
		Transcription:    "📝 Transcription audio",
		SpeechUnloaded:   "⚠️ Modèle de transcription indisponible, transcription ignorée.",
		VisionUnloaded:   "❌ Modèle de vision indisponible, analyse impossible.",
		AnalysisResults:  "📊 Résultats de l'analyse",
		AnalysisError:    "⚠️ Erreur d'analyse",
		DecodeError:      "Erreur lors de la lecture du résultat JSON.",
		SchemaIssues:     "Réponses hors questionnaire",
		FaceHint:         "La détection de visages a compté %d visage(s).",
		RunFailed:        "🔴 Une erreur est survenue pendant l'analyse : %s",
		CleaningUp:       "🧹 Nettoyage des fichiers temporaires...",
		CleanupDone:      "✅ Nettoyage terminé.",
		RecentRuns:       "Analyses récentes",
		NoRuns:           "Aucune analyse pour l'instant.",
		Person:           "Personne %d",
		TooLarge:         "La vidéo dépasse la taille maximale autorisée.",
	},
}

type Catalog struct {
	Lang     string
	messages map[Key]string
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[normalize(lang)]
	return ok
}

// New returns the catalog for lang, falling back to English.
func New(lang string) *Catalog {
	lang = normalize(lang)
	messages, ok := catalogs[lang]
	if !ok {
		lang, messages = English, catalogs[English]
	}
	return &Catalog{Lang: lang, messages: messages}
}

// T returns the copy for key, formatted with args when given.
func (c *Catalog) T(key Key, args ...any) string {
	msg, ok := c.messages[key]
	if !ok {
		msg, ok = catalogs[English][key]
	}
	if !ok {
		return string(key)
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}

// normalize keeps the primary subtag, so "fr-CA" selects French.
func normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i >= 0 {
		lang = lang[:i]
	}
	return lang
}

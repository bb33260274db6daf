package config

// Render Pipeline Constants
const (
	// MaxConcurrentRenders limits the number of videos rendered simultaneously
	MaxConcurrentRenders = 2

	// DefaultTargetDuration is the fallback video length in seconds when a
	// project does not specify one
	DefaultTargetDuration = 30.0

	// SlideshowFPS is the frame rate of the generated slideshow video
	SlideshowFPS = 30
)

// Video Output Constants
const (
	// VideoWidth is the output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// AudioCodec is the audio encoding codec
	AudioCodec = "aac"

	// AudioBitrate is the audio quality bitrate
	AudioBitrate = "192k"

	// CaptionFontSize is the point size for on-screen caption text
	CaptionFontSize = 64
)

// Audio Pipeline Constants
const (
	// SampleRate is the PCM sample rate used throughout the mixing pipeline
	SampleRate = 48000

	// Channels is the PCM channel count (interleaved stereo)
	Channels = 2
)

// Render Quality Levels
//
// Quality maps to an x264 speed preset: higher quality encodes slower.
const (
	QualityHigh   = "high"
	QualityMedium = "medium"
	QualityLow    = "low"
)

// Directory Constants
const (
	// InputDir is the directory containing input project JSON files
	InputDir = "input"

	// OutputDir is the directory for rendered videos
	OutputDir = "output"

	// TemplatesDir is the directory for saved project templates
	TemplatesDir = "templates"

	// AudioDir is the directory searched for per-theme narration files
	AudioDir = "audio"

	// ImagesDir is the directory searched for per-theme slide images
	ImagesDir = "images"
)

// YouTube Constants
const (
	// YouTubeCategoryID for People & Blogs
	YouTubeCategoryID = "22"

	// YouTubePrivacyStatus sets video visibility
	YouTubePrivacyStatus = "unlisted"
)

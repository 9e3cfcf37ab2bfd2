package domain

import "context"

// AudioArtifact is an ephemeral audio file produced by acquisition and
// consumed once by transcription. Release removes the file and is safe to
// call more than once; the orchestrator defers it on every exit path.
type AudioArtifact struct {
	Token   string
	Path    string
	Release func()
}

// AudioFetcher probes a video URL for availability and downloads its best
// audio track to a scratch location.
type AudioFetcher interface {
	Fetch(ctx context.Context, url string) (*AudioArtifact, error)
}

// Transcriber converts a scratch audio file into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// QuizSynthesizer asks a generative model for a quiz matching the strict
// schema and defensively parses the response. The result is untrusted.
type QuizSynthesizer interface {
	Synthesize(ctx context.Context, transcript string) (*RawQuiz, error)
}

// TranscriptCache stores transcripts keyed by video URL so repeat runs on
// the same video skip acquisition and transcription. Quizzes themselves are
// never cached.
type TranscriptCache interface {
	Get(ctx context.Context, videoURL string) (string, error)
	Set(ctx context.Context, videoURL, transcript string) error
}

// QuizRepository persists quizzes and their questions.
type QuizRepository interface {
	// CreateQuizWithQuestions inserts the quiz and all of its questions.
	// Callers run it inside a transaction so the batch commits atomically.
	CreateQuizWithQuestions(ctx context.Context, quiz *Quiz) error
	GetQuizByID(ctx context.Context, id string) (*Quiz, error)
	ListQuizzesByUser(ctx context.Context, userID string) ([]*Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	// DeleteQuiz removes the quiz; questions go with it via FK cascade.
	DeleteQuiz(ctx context.Context, id string) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
}

// TransactionManager runs fn inside a database transaction; fn's context
// carries the transaction for repositories to pick up.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

package store

import (
	"context"

	"minerva/internal/models"
	"minerva/pkg/classifier"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// --- Job Client ---

type JobClient interface {
	// Enqueue submits a task and records it to the JobStore.
	Enqueue(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	EnqueueTrainingRun(ctx context.Context, requestedBy string) (uuid.UUID, error)
	Close() error
}

// --- Corpus Store ---

type CorpusStore interface {
	CreateContent(ctx context.Context, content *models.LabeledContent) error
	GetContent(ctx context.Context, id int64) (*models.LabeledContent, error)
	UpdateContentCategory(ctx context.Context, contentID int64, categoryID *int64, autoClassified bool) error
	DeleteContent(ctx context.Context, id int64) error
	ListContent(ctx context.Context, limit, offset int) ([]*models.LabeledContent, error)
	// ListLabeledContent returns only rows with a category assigned; these
	// form the training corpus.
	ListLabeledContent(ctx context.Context) ([]*models.LabeledContent, error)

	ReplaceContentKeywords(ctx context.Context, contentID int64, keywords []classifier.KeywordResult) error
	GetContentKeywords(ctx context.Context, contentID int64) ([]*models.ContentKeyword, error)

	Ping(ctx context.Context) error
}

// --- Category Store ---

type CategoryStore interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	GetCategoryByName(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]*models.Category, error)
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id int64) error
}

// --- Tag Store ---

type TagStore interface {
	CreateTag(ctx context.Context, tag *models.Tag) error
	GetTagBySlug(ctx context.Context, slug string) (*models.Tag, error)
	GetOrCreateTagsByName(ctx context.Context, names []string) ([]*models.Tag, error)
	ListTags(ctx context.Context, limit, offset int) ([]*models.Tag, error)
	ListTagNames(ctx context.Context) ([]string, error)
}

// --- Classification Log Store ---

type LogStore interface {
	RecordSuggestion(ctx context.Context, log *models.ClassificationLog) error
	GetSuggestion(ctx context.Context, id int64) (*models.ClassificationLog, error)
	// ResolveSuggestion marks a suggestion accepted or rejected; a suggestion
	// resolves at most once.
	ResolveSuggestion(ctx context.Context, id int64, accepted bool) error
	ListSuggestions(ctx context.Context, limit, offset int, unresolvedOnly bool) ([]*models.ClassificationLog, error)
}

// --- Job Store ---

// JobRecordParams holds parameters for recording a job event.
type JobRecordParams struct {
	JobID    uuid.UUID
	TaskType string
	Payload  []byte
	Queue    string
	Status   string
}

type JobStore interface {
	RecordJobEnqueue(ctx context.Context, params JobRecordParams) error
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status string) error
	GetJob(ctx context.Context, jobID uuid.UUID) (*models.BackgroundJob, error)
	ListJobs(ctx context.Context, limit, offset int) ([]*models.BackgroundJob, error)
}

// --- Model Store ---

// ModelStore persists trained model snapshots. Writes are
// write-then-publish: a snapshot becomes visible only once fully written.
type ModelStore interface {
	Save(model *classifier.Model) (version int64, err error)
	Load(version int64) (*classifier.Model, error)
	LoadLatest() (*classifier.Model, error)
	LatestVersion() (int64, error)
	ListVersions() ([]int64, error)
}

package interfaces

import (
	"context"

	"github.com/raysh454/siteshift/internal/model"
)

// DocumentStore is the external persistent store of Projects. The pipeline controller
// is the sole writer; Save is assumed atomic for the whole Project aggregate and the
// controller never issues concurrent saves for the same project.
type DocumentStore interface {
	Load(ctx context.Context, projectID string) (*model.Project, error)
	Save(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, projectID string) error
}

// FileReader abstracts reading an uploaded input (local path or remote URL) into bytes.
type FileReader interface {
	ReadFile(ctx context.Context, handle string) ([]byte, error)
}

// Notifier is the external email/chat transport used to announce pipeline completion
// or failure. The core only ever calls it at stage boundaries; it never blocks a stage
// on delivery succeeding.
type Notifier interface {
	NotifyCompleted(ctx context.Context, project *model.Project) error
	NotifyFailed(ctx context.Context, project *model.Project, reason string) error
}

package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	pkgerrors "github.com/codearena/judge-worker/pkg/errors"
	"github.com/codearena/judge-worker/pkg/rubric"
)

// rubricDocument is the published form of a challenge version's rubric:
// the rubric itself plus the judge image the platform pinned for it.
type rubricDocument struct {
	JudgeImage string        `json:"judge_image"`
	Rubric     rubric.Rubric `json:"rubric"`
}

type storeRubricSource struct {
	store  Store
	prefix string
}

// NewRubricSource resolves published rubrics from the object store under
// <prefix>/<challengeVersion>.json. Published rubrics are immutable, so a
// missing key is fatal rather than retryable.
func NewRubricSource(store Store, prefix string) rubric.Source {
	return &storeRubricSource{store: store, prefix: prefix}
}

func (s *storeRubricSource) Resolve(challengeVersion string) (rubric.Rubric, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key := path.Join(s.prefix, challengeVersion+".json")
	data, err := s.store.Download(ctx, key)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrArtifactNotFound) {
			return rubric.Rubric{}, "", fmt.Errorf("%w: challenge %s", pkgerrors.ErrRubricNotFound, challengeVersion)
		}
		return rubric.Rubric{}, "", err
	}

	var doc rubricDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return rubric.Rubric{}, "", fmt.Errorf("rubric %s is not valid JSON: %w", key, err)
	}
	return doc.Rubric, doc.JudgeImage, nil
}

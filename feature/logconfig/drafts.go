package logconfig

import (
	"context"
	"sync"

	"log-console/core/validation"
	"log-console/feature/logconfig/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DraftPatch holds the fields to change in a draft. Nil fields are kept.
type DraftPatch struct {
	Name       *string         `json:"name"`
	LogType    *models.LogType `json:"logType"`
	Regex      *string         `json:"regex"`
	SampleLog  *string         `json:"sampleLog"`
	TimeKey    *string         `json:"timeKey"`
	TimeFormat *string         `json:"timeFormat"`
}

// DraftView is the API representation of a draft.
type DraftView struct {
	ID        string       `json:"id"`
	BaseID    string       `json:"baseId,omitempty"`
	Config    models.Input `json:"config"`
	Validated bool         `json:"validated"`
	Error     string       `json:"error,omitempty"`
}

// draft is an unsaved edit of a log config. Parsing-related fields are
// re-validated whenever they change, except when the draft is opened.
type draft struct {
	mu        sync.Mutex
	id        string
	baseID    string
	input     models.Input
	ctx       context.Context
	validator *validation.ChangeValidator
	trigger   *validation.AutoTrigger
}

func (d *draft) deps() []any {
	return []any{d.input.LogType, d.input.Regex, d.input.SampleLog}
}

func (d *draft) view(validated bool) DraftView {
	return DraftView{
		ID:        d.id,
		BaseID:    d.baseID,
		Config:    d.input,
		Validated: validated,
		Error:     d.validator.Error(),
	}
}

type draftStore struct {
	mu     sync.Mutex
	drafts map[string]*draft
}

func newDraftStore() *draftStore {
	return &draftStore{drafts: make(map[string]*draft)}
}

func (s *draftStore) get(id string) (*draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.drafts[id]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return d, nil
}

// OpenDraft starts an edit of the config baseID, or of a new config when
// baseID is empty.
func (s *Service) OpenDraft(ctx context.Context, baseID string) (*DraftView, error) {
	d := &draft{id: uuid.NewString(), baseID: baseID}
	if baseID != "" {
		cfg, err := s.repo.Get(ctx, baseID)
		if err != nil {
			return nil, err
		}
		d.input = models.Input{
			Name:       cfg.Name,
			LogType:    cfg.LogType,
			Regex:      cfg.Regex,
			SampleLog:  cfg.SampleLog,
			TimeKey:    cfg.TimeKey,
			TimeFormat: cfg.TimeFormat,
		}
	}

	d.validator = validation.NewChangeValidator(func() error {
		ctx := d.ctx
		if ctx == nil {
			ctx = context.Background()
		}
		cfg := &models.LogConfig{}
		d.input.Apply(cfg)
		return s.Validate(ctx, cfg)
	})
	d.trigger = validation.NewAutoTrigger(d.validator)
	d.trigger.Evaluate(d.deps()...)

	s.drafts.mu.Lock()
	s.drafts.drafts[d.id] = d
	s.drafts.mu.Unlock()

	s.logger.Debug("Draft opened", zap.String("draft", d.id), zap.String("base", baseID))
	v := d.view(false)
	return &v, nil
}

// GetDraft returns a draft without validating it.
func (s *Service) GetDraft(id string) (*DraftView, error) {
	d, err := s.drafts.get(id)
	if err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	v := d.view(false)
	return &v, nil
}

// UpdateDraft applies patch and re-validates when a parsing field changed.
func (s *Service) UpdateDraft(ctx context.Context, id string, patch DraftPatch) (*DraftView, error) {
	d, err := s.drafts.get(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if patch.Name != nil {
		d.input.Name = *patch.Name
	}
	if patch.LogType != nil {
		d.input.LogType = *patch.LogType
	}
	if patch.Regex != nil {
		d.input.Regex = *patch.Regex
	}
	if patch.SampleLog != nil {
		d.input.SampleLog = *patch.SampleLog
	}
	if patch.TimeKey != nil {
		d.input.TimeKey = *patch.TimeKey
	}
	if patch.TimeFormat != nil {
		d.input.TimeFormat = *patch.TimeFormat
	}

	d.ctx = ctx
	validated := d.trigger.Evaluate(d.deps()...)
	d.ctx = nil

	v := d.view(validated)
	return &v, nil
}

// CommitDraft saves the draft as a new config or over its base, then closes it.
func (s *Service) CommitDraft(ctx context.Context, id string) (*models.LogConfig, error) {
	d, err := s.drafts.get(id)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	in, baseID := d.input, d.baseID
	d.mu.Unlock()

	var cfg *models.LogConfig
	if baseID == "" {
		cfg, err = s.Create(ctx, in)
	} else {
		cfg, err = s.Update(ctx, baseID, in)
	}
	if err != nil {
		return nil, err
	}

	s.CloseDraft(id)
	return cfg, nil
}

// CloseDraft discards a draft.
func (s *Service) CloseDraft(id string) bool {
	s.drafts.mu.Lock()
	defer s.drafts.mu.Unlock()
	if _, ok := s.drafts.drafts[id]; !ok {
		return false
	}
	delete(s.drafts.drafts, id)
	return true
}

package patterns

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"log-console/core/patternmatch"
	"log-console/feature/samples"

	"go.uber.org/zap"
)

// maxSampleLines bounds the number of sample lines matched per request.
const maxSampleLines = 1000

// ErrEmptyPattern is returned when a request carries no pattern.
var ErrEmptyPattern = errors.New("pattern is required")

// PatternMatcher runs a regex against text.
type PatternMatcher interface {
	Match(ctx context.Context, req patternmatch.Request) (patternmatch.Response, error)
}

// SampleReader returns the content of a stored sample log.
type SampleReader interface {
	Read(ctx context.Context, key string) (*samples.Content, error)
}

// SampleRequest asks for a pattern to be tried on a stored sample.
type SampleRequest struct {
	Pattern string `json:"pattern"`
	Key     string `json:"key"`
}

// SampleResult summarises a pattern run over every line of a sample.
type SampleResult struct {
	Key       string              `json:"key"`
	Truncated bool                `json:"truncated"`
	Lines     int                 `json:"lines"`
	Matched   int                 `json:"matched"`
	First     *patternmatch.Match `json:"first,omitempty"`
	// Unmatched holds up to ten line numbers (1-based) that did not match.
	Unmatched []int  `json:"unmatched"`
	Error     string `json:"error,omitempty"`
}

// Service tries patterns against text and samples.
type Service struct {
	matcher PatternMatcher
	samples SampleReader
	logger  *zap.Logger
}

// NewService creates a new patterns service.
func NewService(matcher PatternMatcher, samples SampleReader, logger *zap.Logger) *Service {
	return &Service{matcher: matcher, samples: samples, logger: logger}
}

// Match runs one request. Pattern errors are reported in the response.
func (s *Service) Match(ctx context.Context, req patternmatch.Request) (patternmatch.Response, error) {
	if req.Pattern == "" {
		return patternmatch.Response{}, ErrEmptyPattern
	}
	return s.matcher.Match(ctx, req)
}

// MatchSample runs the pattern on each non-empty line of a sample. It stops at
// the first pattern error.
func (s *Service) MatchSample(ctx context.Context, req SampleRequest) (*SampleResult, error) {
	if req.Pattern == "" {
		return nil, ErrEmptyPattern
	}
	content, err := s.samples.Read(ctx, req.Key)
	if err != nil {
		return nil, err
	}

	result := &SampleResult{Key: content.Key, Truncated: content.Truncated, Unmatched: []int{}}
	for i, line := range strings.Split(content.Content, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		if result.Lines == maxSampleLines {
			result.Truncated = true
			break
		}
		result.Lines++

		resp, err := s.matcher.Match(ctx, patternmatch.Request{Pattern: req.Pattern, Text: line})
		if err != nil {
			return nil, fmt.Errorf("failed to match line %d: %w", i+1, err)
		}
		if resp.Error != "" {
			result.Error = resp.Error
			break
		}
		if resp.Result == nil {
			if len(result.Unmatched) < 10 {
				result.Unmatched = append(result.Unmatched, i+1)
			}
			continue
		}
		result.Matched++
		if result.First == nil {
			result.First = resp.Result
		}
	}

	s.logger.Debug("Pattern tried on sample",
		zap.String("key", result.Key),
		zap.Int("lines", result.Lines),
		zap.Int("matched", result.Matched))
	return result, nil
}

package checks

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"log-console/core/storage"

	"github.com/minio/minio-go/v7"
)

// SamplesReport lists sample objects the console cannot show in full.
type SamplesReport struct {
	Total int `json:"total"`
	// Oversized samples are truncated when read.
	Oversized []string `json:"oversized"`
	Empty     []string `json:"empty"`
}

// CheckSamples inspects every object under samples/.
func CheckSamples(ctx context.Context, client storage.Client, bucket string, maxBytes int64) (*SamplesReport, error) {
	report := &SamplesReport{Oversized: []string{}, Empty: []string{}}

	opts := minio.ListObjectsOptions{Prefix: "samples/", Recursive: true}
	for obj := range client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list samples: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		report.Total++
		switch {
		case obj.Size == 0:
			report.Empty = append(report.Empty, obj.Key)
		case maxBytes > 0 && obj.Size > maxBytes:
			report.Oversized = append(report.Oversized, obj.Key)
		}
	}

	sort.Strings(report.Oversized)
	sort.Strings(report.Empty)
	return report, nil
}

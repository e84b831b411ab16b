package metrics_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filevars/pkg/metrics"
)

// The identifiers are persisted by external consumers; this table pins them.
func TestDefaultCatalogueIdentifiers(t *testing.T) {
	want := []string{
		"activity-instance-start",
		"job-acquisition-attempt",
		"job-acquired-success",
		"job-acquired-failure",
		"job-successful",
		"job-failed",
		"job-locked-exclusive",
	}

	names := metrics.Default().Names()
	got := make([]string, 0, len(names))
	for _, n := range names {
		got = append(got, string(n))
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want), metrics.Default().Len())
}

func TestLookup(t *testing.T) {
	cat := metrics.Default()

	entry, err := cat.Lookup("job-locked-exclusive")
	require.NoError(t, err)
	assert.Equal(t, metrics.JobLockedExclusive, entry.Name)
	assert.Equal(t, "JobLockedExclusive", entry.Key)
	assert.NotEmpty(t, entry.Description)

	_, err = cat.Lookup(" job-failed ")
	require.NoError(t, err)

	_, err = cat.Lookup("job-lost")
	require.ErrorIs(t, err, metrics.ErrUnknownName)

	assert.True(t, cat.Contains(metrics.JobAcquisitionAttempt))
	assert.False(t, cat.Contains("job-lost"))
	assert.True(t, cat.Contains(" job-failed "))
}

func TestEntriesReturnsCopy(t *testing.T) {
	entries := metrics.Default().Entries()
	entries[0].Name = "mutated"

	assert.Equal(t, metrics.ActivityInstanceStart, metrics.Default().Entries()[0].Name)
}

func TestNewCatalogueValidation(t *testing.T) {
	tests := []struct {
		name    string
		entries []metrics.Entry
		wantErr bool
	}{
		{name: "no entries", wantErr: true},
		{name: "empty name", entries: []metrics.Entry{{Name: ""}}, wantErr: true},
		{name: "upper case", entries: []metrics.Entry{{Name: "Job-Failed"}}, wantErr: true},
		{name: "underscore", entries: []metrics.Entry{{Name: "job_failed"}}, wantErr: true},
		{name: "trailing dash", entries: []metrics.Entry{{Name: "job-"}}, wantErr: true},
		{
			name:    "duplicate",
			entries: []metrics.Entry{{Name: "job-failed"}, {Name: "job-failed"}},
			wantErr: true,
		},
		{
			name:    "valid",
			entries: []metrics.Entry{{Name: "job-failed"}, {Name: "job-retried-2"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := metrics.NewCatalogue(tt.entries...)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, len(tt.entries), cat.Len())
			assert.Equal(t, "job-failed", cat.Entries()[0].Key)
		})
	}
}

func TestCatalogueConcurrentReads(t *testing.T) {
	cat := metrics.Default()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range cat.Names() {
				if _, err := cat.Lookup(string(n)); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
}

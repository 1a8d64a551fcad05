package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path)
	require.NoError(t, err)

	rec := ApplicationRecord{
		URL:     "https://jobright.ai/jobs/stripe-123",
		Company: "Stripe",
		Outcome: OutcomeSubmitted,
	}
	require.NoError(t, s.Record(rec))
	assert.True(t, s.HasApplied(rec.URL))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Close())

	//reopen and verify the record survived
	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	assert.True(t, s2.HasApplied(rec.URL))
	assert.Equal(t, 1, s2.Len())
	assert.False(t, s2.HasApplied("https://jobright.ai/jobs/other-456"))
}

func TestStore_RecordDuplicateURLOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec := ApplicationRecord{URL: "https://jobright.ai/jobs/stripe-123", Company: "Stripe", Outcome: OutcomeSubmitted}
	require.NoError(t, s.Record(rec))
	require.NoError(t, s.Record(rec))

	assert.Equal(t, 1, s.Len())
}

func TestStore_FileIsAlwaysCompleteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	for i, url := range []string{"https://a.example/1", "https://a.example/2"} {
		require.NoError(t, s.Record(ApplicationRecord{
			URL:       url,
			Company:   "Acme",
			Timestamp: time.Now().UTC().Add(time.Duration(i) * time.Second),
			Outcome:   OutcomeError,
		}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var f logFile
		require.NoError(t, json.Unmarshal(data, &f))
		assert.Len(t, f.Applications, i+1)
	}

	//no leftover temp file
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestStore_DefaultsTimestampToUTC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(ApplicationRecord{URL: "https://a.example/3", Company: "Acme", Outcome: OutcomePartial}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var f logFile
	require.NoError(t, json.Unmarshal(data, &f))
	require.Len(t, f.Applications, 1)
	assert.False(t, f.Applications[0].Timestamp.IsZero())
}

func TestStore_SecondOpenIsRejectedWhileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.json")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = Open(path)
	assert.Error(t, err)
}

package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/regsplit/internal/provision"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()
	r.Document("written")
	r.Document("written")
	r.Document("failed")
	r.Provisions("en", map[provision.Type]int{provision.TypeRecital: 3, provision.TypeAnnex: 1})
	r.Provisions("en", map[provision.Type]int{provision.TypeRecital: 2})
	r.Dropped("fr", 4)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.documents.WithLabelValues("written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.documents.WithLabelValues("failed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(r.rows.WithLabelValues("en", "Recital")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.rows.WithLabelValues("en", "Annex")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.dropped.WithLabelValues("fr")))
}

func TestRecorder_SegmentHistogram(t *testing.T) {
	r := NewRecorder()
	r.Segment(20 * time.Millisecond)
	r.Segment(40 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(r.segment))
	snap := r.Durations()
	assert.Equal(t, 2, snap.Count)
	assert.Equal(t, int64(20), snap.MinMs)
	assert.Equal(t, int64(40), snap.MaxMs)
	assert.Equal(t, 30.0, snap.AvgMs)
}

func TestRecorder_WriteFile(t *testing.T) {
	r := NewRecorder()
	r.Document("written")
	r.Provisions("de", map[provision.Type]int{provision.TypeArticle: 7})
	r.Dropped("de", 3)

	path := filepath.Join(t.TempDir(), "regsplit.prom")
	require.NoError(t, r.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `regsplit_documents_total{status="written"} 1`)
	assert.Contains(t, text, `regsplit_provisions_total{lang="de",type="Article Paragraph"} 7`)
	assert.True(t, strings.Contains(text, "# TYPE regsplit_segment_duration_seconds histogram"))
	assert.Contains(t, text, "# HELP regsplit_fragments_dropped_total Fragments that matched no rule in the active zone.")
	assert.Contains(t, text, `regsplit_fragments_dropped_total{lang="de"} 3`)
}

func TestRecorder_WriteFileBadPath(t *testing.T) {
	r := NewRecorder()
	err := r.WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom"))
	assert.Error(t, err)
}

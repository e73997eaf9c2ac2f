package tasks

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubmitSuccess(t *testing.T) {
	r := NewRunner()
	res := r.submit(5*time.Second, "true").Result()
	assert.True(t, res.OK)
	assert.NoError(t, res.Err)
}

func TestSubmitFailure(t *testing.T) {
	r := NewRunner()
	res := r.submit(5*time.Second, "false").Result()
	assert.False(t, res.OK)
	assert.Error(t, res.Err)
}

func TestSubmitTimeout(t *testing.T) {
	r := NewRunner()
	res := r.submit(100*time.Millisecond, "sleep", "5").Result()
	assert.False(t, res.OK)
	assert.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "timed out")
}

func TestScanFileCleanOutput(t *testing.T) {
	r := NewRunner()
	// echo stands in for clamscan; output has no FOUND marker.
	r.ClamscanBin = "echo"
	res := r.ScanFile("/tmp/some-file: OK").Result()
	assert.True(t, res.OK)
}

func TestScanFileInfectedOutput(t *testing.T) {
	r := NewRunner()
	r.ClamscanBin = "echo"
	res := r.ScanFile("/tmp/evil: Eicar-Test-Signature FOUND").Result()
	assert.False(t, res.OK)
}

func TestHandleDoneChannel(t *testing.T) {
	r := NewRunner()
	h := r.submit(5*time.Second, "true")
	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("job never finished")
	}
}

package fileutil_test

import (
	"testing"

	"github.com/arnavsurve/loopstep/pkg/fileutil"
	"github.com/stretchr/testify/assert"
)

func TestResolvePathFromWorkflow(t *testing.T) {
	assert.Equal(t, "/abs/work", fileutil.ResolvePathFromWorkflow("/wf", "/abs/work/"))
	assert.Equal(t, "/wf/work", fileutil.ResolvePathFromWorkflow("/wf", "work"))
	assert.Equal(t, "/data", fileutil.ResolvePathFromWorkflow("/wf/sub", "../../data"))
	assert.Equal(t, "/wf", fileutil.ResolvePathFromWorkflow("/wf", ""))
}

package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDatadogTags(t *testing.T) {
	assert.Empty(t, toDatadogTags(nil))
	assert.Equal(t, []string{"status:failed", "table:RVW_SKY_PLEDGE"}, toDatadogTags(map[string]string{
		"table":  "RVW_SKY_PLEDGE",
		"status": "failed",
	}))
}

func TestNew(t *testing.T) {
	assert.IsType(t, NullClient{}, New("", ""))

	client := New("127.0.0.1", "")
	_, isStatsd := client.(*statsClient)
	assert.True(t, isStatsd)
	Close(client)
}

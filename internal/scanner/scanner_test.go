package scanner

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	navErr       error
	scriptResult string
	scriptErr    error

	navCalls    int
	closeCalls  int
	screenshots int
}

func (f *fakeDriver) Navigate(ctx context.Context, url string) error {
	f.navCalls++
	return f.navErr
}

func (f *fakeDriver) ExecuteScript(ctx context.Context, script string, arg any) (json.RawMessage, error) {
	if f.scriptErr != nil {
		return nil, f.scriptErr
	}
	return json.RawMessage(f.scriptResult), nil
}

func (f *fakeDriver) CloseContext() error {
	f.closeCalls++
	return nil
}

func (f *fakeDriver) CaptureScreenshot(name string) error {
	f.screenshots++
	return nil
}

func TestScan_ParsesFields(t *testing.T) {
	driver := &fakeDriver{scriptResult: `{
		"url": "https://jobs.lever.co/acme/123",
		"domain": "jobs.lever.co",
		"fields": [
			{"label": "First Name", "type": "text", "required": true, "selector": "#first"},
			{"label": "Email", "type": "email", "selector": "#email"},
			{"label": "Pronouns", "type": "color", "selector": "#pronouns"},
			{"label": "", "type": "text", "selector": "#orphan"},
			{"label": "No selector", "type": "text", "selector": ""}
		]
	}`}

	form, err := NewScanner(driver).Scan(context.Background(), "https://jobs.lever.co/acme/123")
	require.NoError(t, err)

	require.Len(t, form.Fields, 3)
	assert.Equal(t, "jobs.lever.co", form.Domain)
	assert.Equal(t, InputText, form.Fields[0].Type)
	assert.True(t, form.Fields[0].Required)
	assert.Equal(t, InputEmail, form.Fields[1].Type)
	//exotic input type degrades to text
	assert.Equal(t, InputText, form.Fields[2].Type)

	assert.Equal(t, 1, driver.closeCalls, "page context must be released")
	assert.Equal(t, 0, driver.screenshots)
}

func TestScan_ZeroFieldsIsValid(t *testing.T) {
	driver := &fakeDriver{scriptResult: `{"url": "", "domain": "acme.com", "fields": []}`}

	form, err := NewScanner(driver).Scan(context.Background(), "https://acme.com/apply")
	require.NoError(t, err)

	assert.Empty(t, form.Fields)
	//page URL falls back to the requested one when the script reports none
	assert.Equal(t, "https://acme.com/apply", form.URL)
	assert.Equal(t, 1, driver.closeCalls)
}

func TestScan_ScriptFailureReleasesContext(t *testing.T) {
	driver := &fakeDriver{scriptErr: errors.New("boom")}

	_, err := NewScanner(driver).Scan(context.Background(), "https://acme.com/apply")
	require.Error(t, err)

	assert.Equal(t, 1, driver.closeCalls, "page context must be released on failure too")
	assert.Equal(t, 1, driver.screenshots)
}

func TestScan_NavigateFailure(t *testing.T) {
	driver := &fakeDriver{navErr: errors.New("timeout")}

	_, err := NewScanner(driver).Scan(context.Background(), "https://acme.com/apply")
	require.Error(t, err)
	//nothing to release, navigation never opened a page
	assert.Equal(t, 0, driver.closeCalls)
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw      string
		expected InputType
	}{
		{"text", InputText},
		{"email", InputEmail},
		{"textarea", InputTextarea},
		{"select", InputSelect},
		{"file", InputFile},
		{"color", InputText},
		{"range", InputText},
		{"", InputText},
	}

	for _, tt := range tests {
		if got := NormalizeType(tt.raw); got != tt.expected {
			t.Errorf("NormalizeType(%q) = %q, want %q", tt.raw, got, tt.expected)
		}
	}
}

package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestAsk(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		valid      func(string) bool
		want       string
		wantErr    error
		wantPrompt int
		wantHelp   int
	}{
		{
			name:       "first answer valid",
			input:      "1\n",
			valid:      OneOf("1", "2"),
			want:       "1",
			wantPrompt: 1,
		},
		{
			name:       "reprompts until valid",
			input:      "7\nfoo\n2\n",
			valid:      OneOf("1", "2"),
			want:       "2",
			wantPrompt: 3,
			wantHelp:   2,
		},
		{
			name:       "case insensitive and keeps case",
			input:      "  QUIT \n",
			valid:      OneOf("q", "quit"),
			want:       "QUIT",
			wantPrompt: 1,
		},
		{
			name:       "free text keeps empty answer",
			input:      "\n",
			valid:      Any,
			want:       "",
			wantPrompt: 1,
		},
		{
			name:       "free text keeps case",
			input:      "Contoso Ltd\n",
			valid:      Any,
			want:       "Contoso Ltd",
			wantPrompt: 1,
		},
		{
			name:       "input ends before valid answer",
			input:      "nope\n",
			valid:      OneOf("y", "n"),
			wantErr:    ErrNoInput,
			wantPrompt: 2,
			wantHelp:   1,
		},
		{
			name:       "empty input",
			input:      "",
			valid:      Any,
			wantErr:    ErrNoInput,
			wantPrompt: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := New(strings.NewReader(tt.input), &out)

			got, err := p.Ask("Pick", tt.valid, "HELP")

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.Equal(t, tt.wantPrompt, strings.Count(out.String(), " Pick: "))
			assert.Equal(t, tt.wantHelp, strings.Count(out.String(), "HELP"))
		})
	}
}

func TestAsk_ReadError(t *testing.T) {
	p := New(failingReader{}, &bytes.Buffer{})

	_, err := p.Ask("Pick", Any, "")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoInput)
	assert.Contains(t, err.Error(), "tty gone")
}

func TestOneOf(t *testing.T) {
	valid := OneOf("s", "Silent")

	assert.True(t, valid("s"))
	assert.True(t, valid("S"))
	assert.True(t, valid("silent"))
	assert.False(t, valid(""))
	assert.False(t, valid("si"))
}

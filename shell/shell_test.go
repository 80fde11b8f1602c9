package shell

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeVolume is a fake Lister which writes fixed names and counts its calls.
type fakeVolume struct {
	names []string
	err   error
	calls int
}

func (f *fakeVolume) ListFiles(w io.Writer) error {
	f.calls++
	for _, name := range f.names {
		if _, err := io.WriteString(w, name+"\n"); err != nil {
			return err
		}
	}
	return f.err
}

// testLogger returns a logger writing into buffer.
func testLogger(buffer *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// runKernelShell runs a kernel shell on input and returns everything written to the console.
func runKernelShell(t *testing.T, input string, volume Lister, program Program, opts ...Option) (string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	s, err := NewKernelShell(NewTTY(strings.NewReader(input), out), volume, program, opts...)
	require.NoError(t, err)

	err = s.Run()
	return out.String(), err
}

// TestShell_Run_Session verifies the documented session: a blank line, an unknown command and quit.
func TestShell_Run_Session(t *testing.T) {
	t.Parallel()

	out, err := runKernelShell(t, "\nfoo\nquit\n", nil, nil)
	require.NoError(t, err)

	want := KernelBanner +
		KernelPrompt + KernelPrompt + // The blank line only re-prompts.
		KernelNotFound +
		KernelPrompt + KernelFarewell
	assert.Equal(t, want, out)
}

func TestShell_Run_Commands(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		input     string
		wantOut   string
		wantCalls int
	}{
		{
			name:    "help",
			input:   "help\nquit\n",
			wantOut: KernelBanner + KernelPrompt + KernelHelp + KernelPrompt + KernelFarewell,
		},
		{
			name:      "ls",
			input:     "ls\nquit\n",
			wantOut:   KernelBanner + KernelPrompt + "README\nkernel.bin\n" + KernelPrompt + KernelFarewell,
			wantCalls: 1,
		},
		{
			name:      "ls twice reads twice",
			input:     "ls\nls\nquit\n",
			wantOut:   KernelBanner + KernelPrompt + "README\nkernel.bin\n" + KernelPrompt + "README\nkernel.bin\n" + KernelPrompt + KernelFarewell,
			wantCalls: 2,
		},
		{
			name:    "nothing runs after quit",
			input:   "quit\nls\nhelp\n",
			wantOut: KernelBanner + KernelPrompt + KernelFarewell,
		},
		{
			name:    "windows line endings",
			input:   "help\r\nquit\r\n",
			wantOut: KernelBanner + KernelPrompt + KernelHelp + KernelPrompt + KernelFarewell,
		},
		{
			name:    "blank lines never dispatch",
			input:   "\n\n\nquit\n",
			wantOut: KernelBanner + strings.Repeat(KernelPrompt, 4) + KernelFarewell,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			volume := &fakeVolume{names: []string{"README", "kernel.bin"}}
			out, err := runKernelShell(t, tc.input, volume, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.wantOut, out)
			assert.Equal(t, tc.wantCalls, volume.calls)
		})
	}
}

func TestShell_Run_Exec(t *testing.T) {
	t.Parallel()

	mockCtrl := gomock.NewController(t)
	program := NewMockProgram(mockCtrl)

	out := &bytes.Buffer{}
	console := NewTTY(strings.NewReader("exec\nquit\n"), out)

	// The program shares the console with the shell.
	program.EXPECT().Main().Times(1).Do(func() {
		_, _ = console.WriteString("Hello World!\n")
	})

	s, err := NewKernelShell(console, nil, program)
	require.NoError(t, err)
	require.NoError(t, s.Run())

	assert.Equal(t, KernelBanner+KernelPrompt+"Hello World!\n"+KernelPrompt+KernelFarewell, out.String())
}

func TestShell_Run_ExecPanics(t *testing.T) {
	t.Parallel()

	program := ProgramFunc(func() {
		panic("user program fault")
	})

	s, err := NewKernelShell(NewTTY(strings.NewReader("exec\nquit\n"), io.Discard), nil, program)
	require.NoError(t, err)

	assert.PanicsWithValue(t, "user program fault", func() {
		_ = s.Run()
	}, "a fault in the program is not contained")
}

func TestShell_Run_ListError(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	volume := &fakeVolume{names: []string{"README"}, err: errors.New("device failure")}

	out, err := runKernelShell(t, "ls\nquit\n", volume, nil, WithLogger(testLogger(logs)))
	require.NoError(t, err)

	assert.Equal(t, KernelBanner+KernelPrompt+"README\n"+KernelPrompt+KernelFarewell, out, "errors never reach the console")
	assert.Contains(t, logs.String(), "device failure")
}

func TestShell_Run_MissingVolumeAndProgram(t *testing.T) {
	t.Parallel()

	logs := &bytes.Buffer{}
	out, err := runKernelShell(t, "ls\nexec\nquit\n", nil, nil, WithLogger(testLogger(logs)))
	require.NoError(t, err)

	assert.Equal(t, KernelBanner+KernelPrompt+KernelPrompt+KernelPrompt+KernelFarewell, out)
	assert.Contains(t, logs.String(), "no volume to list")
	assert.Contains(t, logs.String(), "no program to execute")
}

func TestShell_Run_EndOfInput(t *testing.T) {
	t.Parallel()

	out, err := runKernelShell(t, "help\n", nil, nil)
	require.ErrorIs(t, err, io.EOF)
	assert.Equal(t, KernelBanner+KernelPrompt+KernelHelp+KernelPrompt, out)
}

func TestShell_Run_LongLineIsTruncated(t *testing.T) {
	t.Parallel()

	// A buffer of 5 bytes holds 4 characters and the terminator.
	out, err := runKernelShell(t, "quitquit\n", nil, nil, WithBufferSize(5))
	require.NoError(t, err)
	assert.Equal(t, KernelBanner+KernelPrompt+KernelFarewell, out)
}

func TestShell_Run_WriteError(t *testing.T) {
	t.Parallel()

	writeErr := errors.New("console gone")
	s, err := New(failingConsole{err: writeErr})
	require.NoError(t, err)

	assert.ErrorIs(t, s.Run(), writeErr)
}

// failingConsole fails on every write.
type failingConsole struct {
	err error
}

func (f failingConsole) ReadLine(buf []byte) (int, error)  { return 0, io.EOF }
func (f failingConsole) WriteString(s string) (int, error) { return 0, f.err }
func (f failingConsole) Clear() error                      { return nil }

func TestNew_InvalidRegistry(t *testing.T) {
	t.Parallel()

	_, err := New(failingConsole{}, WithRegistry(Registry{{Name: "a b", Action: ActionHelp}, {}}))
	assert.ErrorIs(t, err, ErrInvalidRegistry)
}

func TestBootShell_Run(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		wantOut string
	}{
		{
			name:    "copy echoes the next line",
			input:   "copy\nhello\n",
			wantOut: BootBanner + BootPrompt + "hello\n" + BootPrompt,
		},
		{
			name:    "copy truncates to the buffer",
			input:   "copy\n" + strings.Repeat("a", 30) + "\n",
			wantOut: BootBanner + BootPrompt + strings.Repeat("a", BootBufferSize-1) + "\n" + BootPrompt,
		},
		{
			name:    "copy of a blank line",
			input:   "copy\n\n",
			wantOut: BootBanner + BootPrompt + "\n" + BootPrompt,
		},
		{
			name:    "unknown command and blank line",
			input:   "foo\n\n",
			wantOut: BootBanner + BootPrompt + BootNotFound + BootPrompt + BootPrompt,
		},
		{
			name:    "there is no quit",
			input:   "quit\n",
			wantOut: BootBanner + BootPrompt + BootNotFound + BootPrompt,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			out := &bytes.Buffer{}
			s, err := NewBootShell(NewTTY(strings.NewReader(tc.input), out))
			require.NoError(t, err)

			require.ErrorIs(t, s.Run(), io.EOF, "the boot shell only ends with its input")
			assert.Equal(t, tc.wantOut, out.String())
		})
	}
}

package main

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/aligator/tydos"
	"github.com/aligator/tydos/shell"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) (string, bool) {
	return "", false
}

// writeImage stores an image with one boot sector and two slots, the first holding README.
func writeImage(t *testing.T, fs afero.Fs, signature [tydos.SignatureSize]byte) {
	t.Helper()

	header := tydos.Header{
		Signature:    signature,
		TotalSectors: 4,
		BootSectors:  1,
		FileEntries:  2,
		MaxFileSize:  1,
	}

	image := bytes.Buffer{}
	require.NoError(t, binary.Write(&image, binary.LittleEndian, header))
	image.Write(make([]byte, tydos.SectorSize-tydos.HeaderSize))
	image.WriteString("README")
	image.Write(make([]byte, 3*tydos.SectorSize-len("README")))

	require.NoError(t, afero.WriteFile(fs, "disk.img", image.Bytes(), 0o644))
}

func TestRun(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeImage(t, fs, tydos.Signature)

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-image", "disk.img"}, fs, noEnv, strings.NewReader("ls\nexec\nfoo\nquit\n"), stdout, stderr)

	assert.Equal(t, 0, code, stderr.String())
	want := shell.KernelBanner +
		shell.KernelPrompt + "README\n" +
		shell.KernelPrompt + "Hello World!\n" +
		shell.KernelPrompt + shell.KernelNotFound +
		shell.KernelPrompt + shell.KernelFarewell
	assert.Equal(t, want, stdout.String())
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeImage(t, fs, [tydos.SignatureSize]byte{'n', 'o', 'p', 'e'})

	testCases := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "no image", args: nil, wantCode: 2},
		{name: "missing image", args: []string{"-image", "missing.img"}, wantCode: 1},
		{name: "invalid signature", args: []string{"-image", "disk.img"}, wantCode: 1},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
			code := run(tc.args, fs, noEnv, strings.NewReader("quit\n"), stdout, stderr)
			assert.Equal(t, tc.wantCode, code)
			assert.Empty(t, stdout.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}

func TestRun_SkipChecks(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeImage(t, fs, [tydos.SignatureSize]byte{'n', 'o', 'p', 'e'})

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	code := run([]string{"-image", "disk.img", "-skip-checks"}, fs, noEnv, strings.NewReader("ls\n"), stdout, stderr)

	// The input ends without quit, which is not an error.
	assert.Equal(t, 0, code, stderr.String())
	assert.Equal(t, shell.KernelBanner+shell.KernelPrompt+"README\n"+shell.KernelPrompt, stdout.String())
}

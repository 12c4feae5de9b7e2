package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeleteCmd_Use(t *testing.T) {
	assert.Equal(t, "delete [doc-id]", deleteCmd.Use)
}

func TestDeleteCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"delete"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDeleteCmd_ForceSkipsPrompt(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockLibrary{}
	libraryService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"delete", "doc-1", "--force"})
	defer func() {
		rootCmd.SetArgs(nil)
		deleteForce = false
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Deleted")
	assert.Equal(t, []string{"doc-1"}, mock.deleted)
}

func TestDeleteCmd_ConfirmsBeforeDeleting(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockLibrary{}
	libraryService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("y\n"))
	rootCmd.SetArgs([]string{"delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Delete \"Test Document\"?")
	assert.Equal(t, []string{"doc-1"}, mock.deleted)
}

func TestDeleteCmd_AbortsOnNo(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	mock := &mockLibrary{}
	libraryService = mock

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetIn(strings.NewReader("n\n"))
	rootCmd.SetArgs([]string{"delete", "doc-1"})
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Aborted.")
	assert.Empty(t, mock.deleted)
}

// ABOUTME: Tests for the contact detail screen
// ABOUTME: Verifies loading, editing, photo upload states, and deletion

package detail

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/kdichter/contactctl/internal/client"
	"github.com/kdichter/contactctl/internal/tui/contactform"
	"github.com/kdichter/contactctl/internal/tui/filepicker"
	"github.com/kdichter/contactctl/internal/tui/recentfiles"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func testClient(t *testing.T, handler http.HandlerFunc) *client.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return client.New(srv.URL, staticToken("tok"))
}

func loaded(contact *client.Contact) contactLoadedMsg {
	return contactLoadedMsg{seq: 1, contact: contact}
}

func TestLoadedContactShown(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1

	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada", PhotoURL: "http://p/1.png"}))
	m = model.(*Model)

	if m.contact == nil || m.contact.Name != "Ada" {
		t.Fatal("expected contact stored")
	}
	if m.photo != photoCommitted {
		t.Error("expected committed photo state after load")
	}
	if m.photoShown != "http://p/1.png" {
		t.Errorf("expected backend photo shown, got %q", m.photoShown)
	}
}

func TestStaleLoadDiscarded(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 2
	m.busy = true

	stale := loaded(&client.Contact{ID: "old"})
	model, _ := m.Update(stale)
	m = model.(*Model)

	if m.contact != nil {
		t.Error("expected stale contact discarded")
	}
}

func TestUnauthorizedLoadEmitsSessionExpired(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1

	msg := contactLoadedMsg{seq: 1, err: &client.APIError{Kind: client.KindUnauthorized, StatusCode: 403}}
	_, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(SessionExpiredMsg); !ok {
		t.Errorf("expected SessionExpiredMsg, got %T", cmd())
	}
}

func TestNotFoundShowsMessage(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1

	msg := contactLoadedMsg{seq: 1, err: &client.APIError{Kind: client.KindNotFound, StatusCode: 404}}
	model, _ := m.Update(msg)
	m = model.(*Model)

	if m.err == "" {
		t.Error("expected an error message for missing contact")
	}
}

func TestEditOpensPrefilledForm(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'e'}})
	m = model.(*Model)
	if m.form == nil {
		t.Fatal("expected edit form opened")
	}
}

func TestSaveSendsFullRecordAndReloads(t *testing.T) {
	var saved client.Contact
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			json.NewDecoder(r.Body).Decode(&saved)
			json.NewEncoder(w).Encode(saved)
			return
		}
		json.NewEncoder(w).Encode(client.Contact{ID: "c1", Name: "Ada Byron"})
	})
	m := New(c, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)

	complete := contactform.CompleteMsg{
		Contact: client.Contact{ID: "c1", Name: "Ada Byron", Status: client.StatusActive},
	}
	model, cmd := m.Update(complete)
	m = model.(*Model)
	if m.form != nil {
		t.Error("expected form closed on completion")
	}
	if cmd == nil {
		t.Fatal("expected a save command")
	}

	result := cmd()
	if saved.Name != "Ada Byron" || saved.Status != client.StatusActive {
		t.Errorf("expected full record sent, got %+v", saved)
	}

	_, cmd = m.Update(result)
	if cmd == nil {
		t.Error("expected a reload after save")
	}
}

func TestPhotoSelectionShowsPendingPreview(t *testing.T) {
	tmpDir := t.TempDir()
	photo := filepath.Join(tmpDir, "avatar.png")
	os.WriteFile(photo, []byte("img"), 0644)

	uploaded := make(chan string, 1)
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		r.ParseMultipartForm(1 << 20)
		uploaded <- r.FormValue("id")
		w.Write([]byte("http://server/photos/c1.png"))
	})
	m := New(c, recentfiles.New(tmpDir), "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)

	model, cmd := m.Update(filepicker.PhotoSelectedMsg{Path: photo})
	m = model.(*Model)

	if m.photo != photoPending {
		t.Error("expected pending photo state")
	}
	if m.photoShown != photo {
		t.Errorf("expected local preview shown, got %q", m.photoShown)
	}
	if cmd == nil {
		t.Fatal("expected an upload command")
	}

	result := cmd()
	if got := <-uploaded; got != "c1" {
		t.Errorf("expected id c1 uploaded, got %s", got)
	}

	model, _ = m.Update(result)
	m = model.(*Model)
	if m.photo != photoCommitted {
		t.Error("expected committed state after upload")
	}
	if m.photoShown != "http://server/photos/c1.png" {
		t.Errorf("expected server URL shown, got %q", m.photoShown)
	}
}

func TestFailedUploadKeepsPreview(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)
	m.photo = photoPending
	m.photoShown = "/tmp/avatar.png"

	msg := photoUploadedMsg{seq: 1, id: "c1", err: &client.APIError{Kind: client.KindServer, StatusCode: 500}}
	model, _ = m.Update(msg)
	m = model.(*Model)

	if m.photo != photoFailed {
		t.Error("expected failed photo state")
	}
	// The preview is not rolled back; a reload reconciles it
	if m.photoShown != "/tmp/avatar.png" {
		t.Errorf("expected preview kept, got %q", m.photoShown)
	}
}

func TestForeignPhotoUploadDiscarded(t *testing.T) {
	m := New(nil, nil, "b1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "b1", Name: "Bea", PhotoURL: "http://p/b.png"}))
	m = model.(*Model)

	// An upload that was started for a different contact must not land here
	msg := photoUploadedMsg{seq: m.seq, id: "a1", url: "http://server/photos/a.png"}
	model, _ = m.Update(msg)
	m = model.(*Model)

	if m.photoShown != "http://p/b.png" {
		t.Errorf("expected photo unchanged, got %q", m.photoShown)
	}
	if m.hint != "" {
		t.Errorf("expected no hint, got %q", m.hint)
	}
}

func TestStalePhotoUploadDiscarded(t *testing.T) {
	tmpDir := t.TempDir()
	photo := filepath.Join(tmpDir, "avatar.png")
	os.WriteFile(photo, []byte("img"), 0644)

	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", PhotoURL: "http://p/old.png"}))
	m = model.(*Model)

	// Start an upload, then refresh; the refresh supersedes the upload
	model, _ = m.Update(filepicker.PhotoSelectedMsg{Path: photo})
	m = model.(*Model)
	uploadSeq := m.seq
	m.load()

	msg := photoUploadedMsg{seq: uploadSeq, id: "c1", url: "http://server/photos/new.png"}
	model, _ = m.Update(msg)
	m = model.(*Model)

	if m.photoShown == "http://server/photos/new.png" {
		t.Error("expected superseded upload result discarded")
	}
}

func TestStaleSaveResponseDiscarded(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 2
	m.busy = true

	model, cmd := m.Update(contactSavedMsg{seq: 1})
	m = model.(*Model)

	if cmd != nil {
		t.Error("expected no reload from a stale save response")
	}
	if !m.busy {
		t.Error("expected busy unchanged by stale response")
	}
}

func TestPickerStaysOpenWhenFileVanishes(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", PhotoURL: "http://p/old.png"}))
	m = model.(*Model)
	m.picker = filepicker.New(nil)

	model, cmd := m.Update(filepicker.PhotoSelectedMsg{Path: "/does/not/exist.png"})
	m = model.(*Model)

	if cmd != nil {
		t.Error("expected no upload command for an unreadable file")
	}
	if m.picker == nil {
		t.Error("expected picker kept open")
	}
	if m.photo != photoCommitted {
		t.Error("expected photo state unchanged")
	}
}

func TestReloadReconcilesFailedPhoto(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	m.photo = photoFailed
	m.photoShown = "/tmp/avatar.png"

	model, _ := m.Update(loaded(&client.Contact{ID: "c1", PhotoURL: "http://p/old.png"}))
	m = model.(*Model)

	if m.photo != photoCommitted {
		t.Error("expected committed state after reload")
	}
	if m.photoShown != "http://p/old.png" {
		t.Errorf("expected backend photo restored, got %q", m.photoShown)
	}
}

func TestDeleteConfirmedReturnsToList(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	m := New(c, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)

	model, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	m = model.(*Model)
	if !m.confirmDelete {
		t.Fatal("expected pending confirmation")
	}

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = model.(*Model)
	if cmd == nil {
		t.Fatal("expected a delete command")
	}

	model, cmd = m.Update(cmd())
	if cmd == nil {
		t.Fatal("expected a command after delete")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %T", cmd())
	}
}

func TestEscapeGoesBack(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1"}))
	m = model.(*Model)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	if _, ok := cmd().(BackMsg); !ok {
		t.Errorf("expected BackMsg, got %T", cmd())
	}
}

func TestViewRenders(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{
		ID: "c1", Name: "Ada", Email: "ada@x.com", Status: client.StatusActive,
	}))
	m = model.(*Model)

	if m.View() == "" {
		t.Error("View() returned empty string")
	}
}

func TestViewShowsHintAndError(t *testing.T) {
	m := New(nil, nil, "c1")
	m.seq = 1
	model, _ := m.Update(loaded(&client.Contact{ID: "c1", Name: "Ada"}))
	m = model.(*Model)
	m.hint = "photo updated"
	m.err = "upload rejected"

	out := m.View()
	if !strings.Contains(out, "photo updated") {
		t.Error("expected hint rendered")
	}
	if !strings.Contains(out, "upload rejected") {
		t.Error("expected error rendered")
	}
}

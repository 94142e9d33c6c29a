package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adampresley/photoalbums/pkg/apiclient"
	"github.com/adampresley/photoalbums/pkg/models"
)

/*
fakeBackend serves the album REST surface and a storage endpoint from
one test server. Behavior is switched per test through the reject
fields, and every request is recorded in order.
*/
type fakeBackend struct {
	server *httptest.Server

	mu       sync.Mutex
	events   []string
	nextID   int
	objects  map[string][]byte
	slotName map[string]string

	rejects fakeRejects
	barrier *putBarrier
}

/*
putBarrier holds every storage PUT until want of them are in flight at
once. A PUT that waits longer than the timeout gives up.
*/
type putBarrier struct {
	mu      sync.Mutex
	want    int
	arrived int
	release chan struct{}
}

func newPutBarrier(want int) *putBarrier {
	return &putBarrier{want: want, release: make(chan struct{})}
}

func (b *putBarrier) arrive(timeout time.Duration) bool {
	b.mu.Lock()
	b.arrived++

	if b.arrived == b.want {
		close(b.release)
	}

	b.mu.Unlock()

	select {
	case <-b.release:
		return true
	case <-time.After(timeout):
		return false
	}
}

type fakeRejects struct {
	slotFor        string
	storageFor     string
	confirmFor     string
	omitConfirmURL bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	f := &fakeBackend{
		objects:  map[string][]byte{},
		slotName: map[string]string{},
	}

	m := http.NewServeMux()
	m.HandleFunc("POST /albums/{albumid}/images/upload-url", f.uploadURL)
	m.HandleFunc("POST /albums/{albumid}/images/{imageid}/confirm", f.confirm)
	m.HandleFunc("GET /albums/{albumid}/images/{imageid}/download-url", f.downloadURL)
	m.HandleFunc("PUT /storage/{imageid}", f.putObject)
	m.HandleFunc("GET /storage/{imageid}", f.getObject)

	f.server = httptest.NewServer(m)
	t.Cleanup(f.server.Close)

	return f
}

func (f *fakeBackend) client() apiclient.Client {
	return apiclient.NewClient(apiclient.ClientConfig{BaseURL: f.server.URL})
}

func (f *fakeBackend) setRejects(rejects fakeRejects) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejects = rejects
}

func (f *fakeBackend) currentRejects() fakeRejects {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rejects
}

func (f *fakeBackend) record(event string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
}

func (f *fakeBackend) eventsFor(imageID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	result := []string{}

	for _, event := range f.events {
		if strings.HasSuffix(event, " "+imageID) {
			result = append(result, event)
		}
	}

	return result
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func (f *fakeBackend) uploadURL(w http.ResponseWriter, r *http.Request) {
	var request models.UploadSlotRequest

	_ = json.NewDecoder(r.Body).Decode(&request)

	if request.Name == f.currentRejects().slotFor {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "BadRequest", Message: "Quota exceeded"})
		return
	}

	f.mu.Lock()
	f.nextID++
	imageID := fmt.Sprintf("img-%d", f.nextID)
	f.slotName[imageID] = request.Name
	f.events = append(f.events, "slot "+imageID)
	f.mu.Unlock()

	writeJSON(w, http.StatusOK, models.UploadSlot{
		UploadURL: storageURL(r, imageID),
		ImageID:   imageID,
	})
}

func (f *fakeBackend) nameOf(imageID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slotName[imageID]
}

func (f *fakeBackend) setBarrier(barrier *putBarrier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.barrier = barrier
}

func (f *fakeBackend) putObject(w http.ResponseWriter, r *http.Request) {
	imageID := r.PathValue("imageid")

	f.mu.Lock()
	barrier := f.barrier
	f.mu.Unlock()

	if barrier != nil && !barrier.arrive(5*time.Second) {
		w.WriteHeader(http.StatusGatewayTimeout)
		return
	}

	if f.nameOf(imageID) == f.currentRejects().storageFor {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	b, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.objects[imageID] = b
	f.mu.Unlock()

	f.record("put " + imageID)
	w.WriteHeader(http.StatusOK)
}

func (f *fakeBackend) getObject(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	b, ok := f.objects[r.PathValue("imageid")]
	f.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	_, _ = w.Write(b)
}

func (f *fakeBackend) confirm(w http.ResponseWriter, r *http.Request) {
	imageID := r.PathValue("imageid")

	if f.nameOf(imageID) == f.currentRejects().confirmFor {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "NotFound", Message: "Image supposed to be uploaded was not found"})
		return
	}

	f.record("confirm " + imageID)

	response := models.ConfirmUploadResponse{URL: storageURL(r, imageID)}

	if f.currentRejects().omitConfirmURL {
		response.URL = ""
	}

	writeJSON(w, http.StatusOK, response)
}

func (f *fakeBackend) downloadURL(w http.ResponseWriter, r *http.Request) {
	imageID := r.PathValue("imageid")

	if imageID == "forbidden" {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized", Message: "User does not own the image"})
		return
	}

	writeJSON(w, http.StatusOK, models.DownloadSlot{DownloadURL: storageURL(r, imageID)})
}

func storageURL(r *http.Request, imageID string) string {
	return "http://" + r.Host + "/storage/" + imageID
}

func (f *fakeBackend) seed(imageID string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[imageID] = content
}

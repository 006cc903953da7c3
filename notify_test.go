package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/leonardo-bento/githubprs/github"
)

// fakeSlack records chat.postMessage calls.
type fakeSlack struct {
	mu       sync.Mutex
	channels []string
	texts    []string
}

func (f *fakeSlack) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/chat.postMessage" {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.channels = append(f.channels, r.PostForm.Get("channel"))
	f.texts = append(f.texts, r.PostForm.Get("text"))
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.PostForm.Get("channel") == "C_BAD" {
		w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
		return
	}
	w.Write([]byte(`{"ok":true,"channel":"C1","ts":"1.2"}`))
}

func TestSlackNotifier_Notify(t *testing.T) {
	fake := &fakeSlack{}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	notifier := NewSlackNotifier("xoxb-test", srv.URL, testNow)
	err := notifier.Notify(context.Background(), "C1", testResult(testPR(1, "alice")))
	if err != nil {
		t.Fatalf("Notify failed: %v", err)
	}

	if len(fake.channels) != 1 || fake.channels[0] != "C1" {
		t.Fatalf("Expected one post to C1, got %v", fake.channels)
	}
	if !strings.Contains(fake.texts[0], "Test PR alice") {
		t.Errorf("Digest should contain the PR title, got %q", fake.texts[0])
	}
}

func TestSlackNotifier_SlackError(t *testing.T) {
	srv := httptest.NewServer(&fakeSlack{})
	defer srv.Close()

	notifier := NewSlackNotifier("xoxb-test", srv.URL+"/", testNow)
	err := notifier.Notify(context.Background(), "C_BAD", testResult(testPR(1, "alice")))
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("Error should carry the Slack error, got %v", err)
	}
}

func TestFormatSlackDigest(t *testing.T) {
	pr := testPR(1, "alice")
	pr.Title = "Use <b> & friends"

	digest := FormatSlackDigest(testResult(pr), testNow())

	for _, want := range []string{
		"*Open pull requests in acme by alice, bob since 2024-02-01 (1)*",
		"<https://github.com/acme/api/pull/1|Use &lt;b&gt; &amp; friends>",
		"in `acme/api` by <https://github.com/alice|alice>, 2d old",
	} {
		if !strings.Contains(digest, want) {
			t.Errorf("Digest should contain %q, got:\n%s", want, digest)
		}
	}
}

func TestFormatSlackDigest_Empty(t *testing.T) {
	result := testResult()
	result.Warning = "partial results"

	digest := FormatSlackDigest(result, testNow())

	if !strings.Contains(digest, emptyResultMessage) {
		t.Errorf("Empty digest should carry the info message, got %q", digest)
	}
	if !strings.Contains(digest, ":warning: partial results") {
		t.Errorf("Digest should carry the warning, got %q", digest)
	}
}

func TestFormatSlackDigest_Truncates(t *testing.T) {
	prs := make([]github.PullRequest, maxDigestLines+5)
	for i := range prs {
		prs[i] = testPR(1, "alice")
	}

	digest := FormatSlackDigest(testResult(prs...), testNow())

	if got := strings.Count(digest, "• "); got != maxDigestLines {
		t.Errorf("Expected %d lines, got %d", maxDigestLines, got)
	}
	if !strings.Contains(digest, "_...and 5 more_") {
		t.Errorf("Expected overflow line, got tail %q", digest[len(digest)-40:])
	}
}

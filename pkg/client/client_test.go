package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/naveenspark/bidboard/pkg/domain"
)

func TestLoginProviderUsesHyphenatedPath(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewDecoder(r.Body).Decode(&gotBody) //nolint:errcheck
		if r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "jwt", TokenType: "bearer"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("stale"))
	tok, err := c.Login(context.Background(), domain.UserTypeServiceProvider, map[string]string{"email": "p@x.io", "pass": "pw"})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if tok.AccessToken != "jwt" {
		t.Errorf("AccessToken = %q, want jwt", tok.AccessToken)
	}
	if gotPath != "/auth/login/service-provider" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["pass"] != "pw" {
		t.Errorf("body = %v", gotBody)
	}
}

func TestIdentityLoginForwardsCredential(t *testing.T) {
	var gotPath, gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		gotToken = body["token"]
		json.NewEncoder(w).Encode(domain.Token{AccessToken: "jwt"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	if _, err := c.IdentityLogin(context.Background(), ProviderGoogle, domain.UserTypeServiceProvider, "id-token-123"); err != nil {
		t.Fatalf("IdentityLogin() error: %v", err)
	}
	if gotPath != "/auth/login/google/service_provider" {
		t.Errorf("path = %q", gotPath)
	}
	if gotToken != "id-token-123" {
		t.Errorf("token = %q", gotToken)
	}
}

func TestGetProfileUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("expired"))
	_, err := c.GetProfile(context.Background(), domain.UserTypeClient)
	if err == nil {
		t.Fatal("expected error for unauthorized request")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("IsStatus(401) = false for %v", err)
	}
	if got := err.Error(); !strings.Contains(got, "HTTP 401") || !strings.Contains(got, "Could not validate credentials") {
		t.Errorf("error = %q", got)
	}
}

func TestUpdateSection(t *testing.T) {
	var method, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{"company_name": "Acme", "completion_percentage": 50}) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	p, err := c.UpdateSection(context.Background(), SectionCompanyInfo, map[string]string{"company_name": "Acme"})
	if err != nil {
		t.Fatalf("UpdateSection() error: %v", err)
	}
	if method != http.MethodPut || path != "/client/company-info" {
		t.Errorf("request = %s %s", method, path)
	}
	if p.CompletionPercentage() != 50 {
		t.Errorf("completion = %d, want 50", p.CompletionPercentage())
	}
}

func TestProjectBidFlow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /client/projects/{id}/bids", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "4" {
			http.NotFound(w, r)
			return
		}
		json.NewEncoder(w).Encode([]domain.Bid{ //nolint:errcheck
			{ID: 1, ProjectID: 4, BidAmount: 500, Currency: "USD", Status: domain.BidPending},
			{ID: 2, ProjectID: 4, BidAmount: 700, Currency: "USD", Status: domain.BidPending},
		})
	})
	mux.HandleFunc("PUT /client/projects/{id}/bids/{bid}/accept", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.Bid{ID: 2, ProjectID: 4, Status: domain.BidAccepted}) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	bids, err := c.ListProjectBids(context.Background(), 4)
	if err != nil {
		t.Fatalf("ListProjectBids() error: %v", err)
	}
	if len(bids) != 2 {
		t.Fatalf("got %d bids, want 2", len(bids))
	}
	accepted, err := c.AcceptBid(context.Background(), 4, 2)
	if err != nil {
		t.Fatalf("AcceptBid() error: %v", err)
	}
	if accepted.Status != domain.BidAccepted {
		t.Errorf("Status = %q, want accepted", accepted.Status)
	}
}

func TestSubmitBidSendsNumericAmount(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service-provider/projects/3/bid" {
			http.NotFound(w, r)
			return
		}
		json.NewDecoder(r.Body).Decode(&raw)                        //nolint:errcheck
		json.NewEncoder(w).Encode(domain.Bid{ID: 11, ProjectID: 3}) //nolint:errcheck
	}))
	defer srv.Close()

	in, err := ParseBidInput(map[string]string{"bid_amount": "450", "cover_letter": "hire me"})
	if err != nil {
		t.Fatalf("ParseBidInput() error: %v", err)
	}
	if in.Currency != "USD" {
		t.Errorf("Currency = %q, want USD default", in.Currency)
	}
	c := New(srv.URL, StaticToken("tok"))
	if _, err := c.SubmitBid(context.Background(), 3, in); err != nil {
		t.Fatalf("SubmitBid() error: %v", err)
	}
	if amt, ok := raw["bid_amount"].(float64); !ok || amt != 450 {
		t.Errorf("bid_amount = %#v, want number 450", raw["bid_amount"])
	}
}

func TestParseBidInputRejectsText(t *testing.T) {
	if _, err := ParseBidInput(map[string]string{"bid_amount": "lots"}); err == nil {
		t.Error("expected error for non-numeric amount")
	}
}

func TestContractsRequestByRole(t *testing.T) {
	if got := ContractsRequest(domain.UserTypeClient).Path; got != "/client/contracts/" {
		t.Errorf("client path = %q", got)
	}
	if got := ContractsRequest(domain.UserTypeServiceProvider).Path; got != "/client/contracts/service-provider" {
		t.Errorf("provider path = %q", got)
	}
}

func TestDashboardClient(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/client/profile":
			json.NewEncoder(w).Encode(map[string]any{"email": "c@x.io"}) //nolint:errcheck
		case "/client/projects/":
			json.NewEncoder(w).Encode([]domain.Project{{ID: 1, Title: "site"}}) //nolint:errcheck
		case "/client/contracts/":
			json.NewEncoder(w).Encode([]domain.Contract{}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	d, err := New(srv.URL, StaticToken("tok")).Dashboard(context.Background(), domain.UserTypeClient)
	if err != nil {
		t.Fatalf("Dashboard() error: %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("hits = %d, want 3", hits.Load())
	}
	if len(d.Projects) != 1 || d.Projects[0].Title != "site" {
		t.Errorf("Projects = %+v", d.Projects)
	}
	if d.Profile.String("email") != "c@x.io" {
		t.Errorf("Profile = %v", d.Profile)
	}
	if d.Bids != nil {
		t.Errorf("client dashboard should not load bids, got %v", d.Bids)
	}
}

func TestDashboardFailsOnAnyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/service-provider/my-bids" {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"detail": "not a provider"}) //nolint:errcheck
			return
		}
		if r.URL.Path == "/service-provider/profile" {
			w.Write([]byte("{}")) //nolint:errcheck
			return
		}
		w.Write([]byte("[]")) //nolint:errcheck
	}))
	defer srv.Close()

	_, err := New(srv.URL, StaticToken("tok")).Dashboard(context.Background(), domain.UserTypeServiceProvider)
	if !IsStatus(err, http.StatusForbidden) {
		t.Errorf("Dashboard() error = %v, want HTTP 403", err)
	}
}

func TestDispatchCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(5 * time.Second) // slow server
		w.Write([]byte("{}"))       //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // cancel immediately

	res := c.Dispatch(ctx, Request{Path: "/x"})
	if res.Success {
		t.Fatal("expected failure for canceled context")
	}
	if !strings.Contains(res.Error, "context canceled") {
		t.Errorf("Error = %q", res.Error)
	}
}

func TestSignContractPath(t *testing.T) {
	var gotPath, gotMethod, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"id":4,"status":"active"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken("tok"))
	ct, err := c.SignContract(context.Background(), 4, NewMultipart().File(SignatureField, "sig.jpg", strings.NewReader("x")))
	if err != nil {
		t.Fatalf("SignContract() error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/client/contracts/4/sign/service-provider" {
		t.Errorf("%s %s", gotMethod, gotPath)
	}
	if !strings.HasPrefix(gotType, "multipart/form-data; boundary=") {
		t.Errorf("Content-Type = %q", gotType)
	}
	if ct.ID != 4 {
		t.Errorf("ID = %d", ct.ID)
	}
}

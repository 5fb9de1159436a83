package domain

import "testing"

func TestSessionStateTransitions(t *testing.T) {
	s := NewSession("s1")
	if s.State() != SessionFresh {
		t.Fatalf("new session state = %q, want %q", s.State(), SessionFresh)
	}

	s.Append(NewUserMessage("hello"))
	s.Append(NewAssistantMessage("hi there", CategoryTechnical))
	if s.State() != SessionActive {
		t.Fatalf("session state after turn = %q, want %q", s.State(), SessionActive)
	}
	if len(s.History) != 2 {
		t.Fatalf("history length = %d, want 2", len(s.History))
	}
	if s.History[1].AgentType != CategoryTechnical {
		t.Fatalf("assistant message agent type = %q", s.History[1].AgentType)
	}
}

func TestBillingCacheFirstWriteWins(t *testing.T) {
	s := NewSession("s1")
	if s.HasBillingCache() {
		t.Fatal("fresh session should have no billing cache")
	}

	s.SetBillingCache("general info v1")
	s.SetBillingCache("general info v2")
	if s.BillingCache != "general info v1" {
		t.Fatalf("billing cache = %q, want first write preserved", s.BillingCache)
	}
	if !s.HasBillingCache() {
		t.Fatal("billing cache should be set")
	}
}

func TestSessionMetadataCreatedAt(t *testing.T) {
	s := NewSession("s1")
	if _, ok := s.Metadata["created_at"]; !ok {
		t.Fatal("metadata should carry created_at")
	}
}

package models

import "testing"

func TestConsultationStatusTransitions(t *testing.T) {
	tests := []struct {
		name string
		from ConsultationStatus
		to   ConsultationStatus
		want bool
	}{
		{name: "pending to under review", from: StatusPending, to: StatusUnderReview, want: true},
		{name: "under review to reviewed", from: StatusUnderReview, to: StatusReviewed, want: true},
		{name: "pending to reviewed skips a step", from: StatusPending, to: StatusReviewed, want: false},
		{name: "reviewed is terminal", from: StatusReviewed, to: StatusUnderReview, want: false},
		{name: "no backward transition", from: StatusUnderReview, to: StatusPending, want: false},
		{name: "no self transition", from: StatusPending, to: StatusPending, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestRoleDisplayName(t *testing.T) {
	tests := []struct {
		role UserRole
		want string
	}{
		{RolePatient, "Patient"},
		{RoleDoctor, "Doctor"},
		{RoleAsha, "ASHA Worker"},
		{RoleAdmin, "Administrator"},
		{UserRole("nurse"), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.role.DisplayName(); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestRoleIsValid(t *testing.T) {
	for _, r := range AllRoles {
		if !r.IsValid() {
			t.Errorf("expected role %q to be valid", r)
		}
	}
	if UserRole("superuser").IsValid() {
		t.Error("expected unknown role to be invalid")
	}
	for _, r := range RegistrableRoles {
		if r == RoleAdmin {
			t.Error("admin must not be publicly registrable")
		}
	}
}

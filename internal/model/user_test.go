package model

import "testing"

func TestPrincipalRoleChecks(t *testing.T) {
	tests := []struct {
		name        string
		principal   Principal
		wantTeacher bool
		wantStudent bool
		wantAnon    bool
	}{
		{name: "anonymous", principal: Principal{}, wantAnon: true},
		{name: "teacher", principal: Principal{UserID: 1, Role: "teacher"}, wantTeacher: true},
		{name: "student", principal: Principal{UserID: 2, Role: "student"}, wantStudent: true},
		{name: "role is trimmed and case-insensitive", principal: Principal{UserID: 3, Role: "  Teacher "}, wantTeacher: true},
		{name: "unknown role", principal: Principal{UserID: 4, Role: "admin"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.IsTeacher(); got != tt.wantTeacher {
				t.Errorf("IsTeacher() = %v, want %v", got, tt.wantTeacher)
			}
			if got := tt.principal.IsStudent(); got != tt.wantStudent {
				t.Errorf("IsStudent() = %v, want %v", got, tt.wantStudent)
			}
			if got := tt.principal.IsAnonymous(); got != tt.wantAnon {
				t.Errorf("IsAnonymous() = %v, want %v", got, tt.wantAnon)
			}
		})
	}
}

package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

func TestValidateDayOffWeek(t *testing.T) {
	tests := []struct {
		name    string
		days    []int32
		wantErr bool
	}{
		{name: "空集合", days: nil},
		{name: "合法集合", days: []int32{0, 2, 6}},
		{name: "整周休假", days: []int32{0, 1, 2, 3, 4, 5, 6}},
		{name: "超出上界", days: []int32{7}, wantErr: true},
		{name: "负数", days: []int32{-1}, wantErr: true},
		{name: "重复休假日", days: []int32{1, 1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDayOffWeek(tt.days)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateDraftAssignments(t *testing.T) {
	tests := []struct {
		name        string
		assignments map[string][]domain.DraftNurse
		wantErr     bool
	}{
		{
			name: "合法提交",
			assignments: map[string][]domain.DraftNurse{
				"一般手术室": {{EmployeeID: "N101", DayOffWeek: []int32{0, 4}}},
				"急诊手术室": {{EmployeeID: "N102"}},
			},
		},
		{name: "空映射", assignments: map[string][]domain.DraftNurse{}, wantErr: true},
		{
			name:        "类型下没有护士",
			assignments: map[string][]domain.DraftNurse{"一般手术室": {}},
			wantErr:     true,
		},
		{
			name: "护士跨类型重复",
			assignments: map[string][]domain.DraftNurse{
				"一般手术室": {{EmployeeID: "N101"}},
				"急诊手术室": {{EmployeeID: "N101"}},
			},
			wantErr: true,
		},
		{
			name:        "工号为空",
			assignments: map[string][]domain.DraftNurse{"一般手术室": {{}}},
			wantErr:     true,
		},
		{
			name: "休假日越界",
			assignments: map[string][]domain.DraftNurse{
				"一般手术室": {{EmployeeID: "N101", DayOffWeek: []int32{7}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDraftAssignments(tt.assignments)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestValidateFloatWeeks(t *testing.T) {
	room := "OR-1"
	weeks := []*domain.FloatWeek{
		{EmployeeID: "N101", Monday: &room},
		{EmployeeID: "N102", Sunday: &room},
	}
	require.NoError(t, ValidateFloatWeeks(weeks))

	weeks = append(weeks, &domain.FloatWeek{EmployeeID: "N101", Friday: &room})
	require.Error(t, ValidateFloatWeeks(weeks))

	// 整周没有安排的护士不接受
	require.Error(t, ValidateFloatWeeks([]*domain.FloatWeek{{EmployeeID: "N103"}}))

	require.Error(t, ValidateFloatWeeks(nil))
	require.Error(t, ValidateFloatWeeks([]*domain.FloatWeek{{}}))
}

func TestValidateFixedResults(t *testing.T) {
	results := map[string][]domain.FixedResult{
		"一般手术室": {
			{EmployeeID: "N101", RoomID: "OR-1"},
			{EmployeeID: "N102", RoomID: "OR-1"},
		},
	}
	require.NoError(t, ValidateFixedResults(results))

	results["急诊手术室"] = []domain.FixedResult{{EmployeeID: "N102", RoomID: "OR-7"}}
	require.Error(t, ValidateFixedResults(results))

	require.Error(t, ValidateFixedResults(nil))
	require.Error(t, ValidateFixedResults(map[string][]domain.FixedResult{
		"一般手术室": {{EmployeeID: "N103"}},
	}))
}

func TestGenerateRandomNurse(t *testing.T) {
	nurse, err := GenerateRandomNurse("password123", "hospital.test", "SUR")
	require.NoError(t, err)

	require.Len(t, nurse.EmployeeID, 4)
	require.Equal(t, byte('N'), nurse.EmployeeID[0])
	require.Equal(t, domain.RoleNurse, nurse.Role)
	require.Equal(t, "SUR", nurse.DepartmentCode)
	require.Contains(t, nurse.Email, "@hospital.test")
	require.NotEmpty(t, nurse.Name)
	require.NotEqual(t, "password123", nurse.PasswordHash)
}

func TestGenerateRandomDayOffs(t *testing.T) {
	for i := 0; i < 20; i++ {
		days := GenerateRandomDayOffs()
		require.LessOrEqual(t, len(days), 2)
		require.NoError(t, ValidateDayOffWeek(days))
	}
}

package utils

import (
	"errors"
	"fmt"

	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
)

// ValidateDayOffWeek 检查休假日集合是否合法（接口编码 0~6，不允许重复）
func ValidateDayOffWeek(days []int32) error {
	seen := make(map[int32]bool)
	for _, day := range days {
		if !domain.ValidWireWeekday(day) {
			return fmt.Errorf("休假日 %d 超出范围", day)
		}
		if seen[day] {
			return fmt.Errorf("休假日 %d 重复", day)
		}
		seen[day] = true
	}
	return nil
}

// ValidateDraftAssignments 检查草稿保存的输入：
// 手术室类型到护士列表的映射不能为空，护士不能跨类型重复，休假日必须合法
func ValidateDraftAssignments(assignments map[string][]domain.DraftNurse) error {
	if len(assignments) == 0 {
		return errors.New("排班数据不能为空")
	}

	seen := make(map[string]bool)
	for roomType, nurses := range assignments {
		if roomType == "" {
			return errors.New("手术室类型不能为空")
		}
		if len(nurses) == 0 {
			return fmt.Errorf("手术室类型 %s 下没有护士", roomType)
		}
		for _, nurse := range nurses {
			if nurse.EmployeeID == "" {
				return errors.New("存在工号为空的护士")
			}
			if seen[nurse.EmployeeID] {
				return fmt.Errorf("护士 %s 在提交中重复出现", nurse.EmployeeID)
			}
			seen[nurse.EmployeeID] = true

			if err := ValidateDayOffWeek(nurse.DayOffWeek); err != nil {
				return fmt.Errorf("护士 %s 的休假日无效: %s", nurse.EmployeeID, err.Error())
			}
		}
	}
	return nil
}

// ValidateFixedResults 检查求解器结果映射中是否存在空值或重复的护士
func ValidateFixedResults(results map[string][]domain.FixedResult) error {
	if len(results) == 0 {
		return errors.New("排班结果不能为空")
	}

	seen := make(map[string]bool)
	for roomType, entries := range results {
		if roomType == "" {
			return errors.New("手术室类型不能为空")
		}
		if len(entries) == 0 {
			return fmt.Errorf("手术室类型 %s 下没有排班结果", roomType)
		}
		for _, result := range entries {
			if result.EmployeeID == "" {
				return errors.New("存在工号为空的护士")
			}
			if result.RoomID == "" {
				return fmt.Errorf("护士 %s 没有指定手术室", result.EmployeeID)
			}
			if seen[result.EmployeeID] {
				return fmt.Errorf("护士 %s 在提交中重复出现", result.EmployeeID)
			}
			seen[result.EmployeeID] = true
		}
	}
	return nil
}

// ValidateFloatWeeks 检查流动排班中是否存在重复的护士或整周没有安排的护士
func ValidateFloatWeeks(weeks []*domain.FloatWeek) error {
	if len(weeks) == 0 {
		return errors.New("流动排班不能为空")
	}

	seen := make(map[string]bool)
	for _, week := range weeks {
		if week.EmployeeID == "" {
			return errors.New("存在工号为空的护士")
		}
		if seen[week.EmployeeID] {
			return fmt.Errorf("护士 %s 在提交中重复出现", week.EmployeeID)
		}
		seen[week.EmployeeID] = true

		if week.IsEmpty() {
			return fmt.Errorf("护士 %s 一周内没有任何安排", week.EmployeeID)
		}
	}
	return nil
}

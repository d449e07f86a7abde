package utils

import (
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

// GenerateRandomEmployeeID 生成形如 N101 的工号，首字母为职位编码
func GenerateRandomEmployeeID(role domain.EmployeeRole) string {
	employeeID := string(role)
	for i := 0; i < 3; i++ {
		employeeID += string(digits[rand.Intn(len(digits))])
	}
	return employeeID
}

// GenerateUsernameFromChineseName 用拼音生成邮箱用户名
func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomNurse(password string, emailDomainName string, departmentCode string) (*domain.Employee, error) {
	name := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(name)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	employee := &domain.Employee{
		EmployeeID:     GenerateRandomEmployeeID(domain.RoleNurse),
		PasswordHash:   string(passwordHash),
		Name:           name,
		Email:          username + "@" + emailDomainName,
		Role:           domain.RoleNurse,
		DepartmentCode: departmentCode,
	}

	return employee, nil
}

// GenerateRandomDayOffs 随机生成 0~2 个不重复的休假日（接口编码 0~6）
func GenerateRandomDayOffs() []int32 {
	days := []int32{0, 1, 2, 3, 4, 5, 6}

	for i := len(days) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		days[i], days[j] = days[j], days[i]
	}

	n := rand.Intn(3)

	return days[:n]
}

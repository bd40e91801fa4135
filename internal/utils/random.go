package utils

import (
	"fmt"
	"math/rand"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "霞", "飞", "玲", "超",
	"华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌", "欣",
}

func GenerateRandomChineseName() (surname string, given string) {
	surname = commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1

	for i := 0; i < nameLength; i++ {
		given += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname, given
}

var roles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleHeadNurse,
	domain.RoleViewer,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, py := range pinyinArray {
		length := rand.Intn(len(py)) + 1
		username += py[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	surname, given := GenerateRandomChineseName()
	fullName := surname + given
	username := GenerateUsernameFromChineseName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

// GenerateRandomNurse 生成一个随机护士，displayOrder 由调用方指定
func GenerateRandomNurse(hospitalID int64, wardID int64, displayOrder int32) *domain.Nurse {
	surname, given := GenerateRandomChineseName()

	return &domain.Nurse{
		FirstName:      given,
		LastName:       surname,
		DisplayName:    surname + given,
		DisplayOrder:   &displayOrder,
		HospitalID:     hospitalID,
		WardID:         wardID,
		ActiveForShift: true,
	}
}

var leaveTypes = []domain.LeaveType{
	domain.LeaveSick,
	domain.LeavePersonal,
	domain.LeaveVacation,
}

func GenerateRandomLeaveType() domain.LeaveType {
	return leaveTypes[rand.Intn(len(leaveTypes))]
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	randomPassword := make([]rune, length)
	for i := range randomPassword {
		randomPassword[i] = letters[rand.Intn(len(letters))]
	}
	return string(randomPassword)
}

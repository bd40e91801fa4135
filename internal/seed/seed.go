package seed

import (
	"log/slog"
	"math/rand"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/domain"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/repository"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/utils"
)

var hospitalWards = map[string][]string{
	"市第一人民医院": {"内科一病区", "内科二病区", "外科病区", "重症监护病区"},
	"市中医院":    {"骨伤科病区", "康复科病区", "急诊病区"},
}

const nursesPerWard = 12

// SeedReferenceData 插入医院、病区、病区配置和随机护士名册，
// 用于本地开发时快速准备参考数据
func SeedReferenceData(r *repository.Repository) {
	for hospitalName, wardNames := range hospitalWards {
		hospital := &domain.Hospital{Name: hospitalName}
		if err := r.CreateHospital(hospital); err != nil {
			slog.Error("无法插入医院", "name", hospitalName, "error", err)
			return
		}

		for _, wardName := range wardNames {
			ward := &domain.Ward{
				HospitalID: hospital.ID,
				Name:       wardName,
			}
			if err := r.CreateWard(ward); err != nil {
				slog.Error("无法插入病区", "name", wardName, "error", err)
				return
			}

			policy := domain.DefaultWardPolicy(ward.ID)
			// 让部分病区的上限和默认值不一样，方便前端联调
			if rand.Intn(3) == 0 {
				policy.MaxMorning++
				policy.MaxNight++
			}
			if err := r.CreateWardPolicy(policy); err != nil {
				slog.Error("无法插入病区排班配置", "wardID", ward.ID, "error", err)
				return
			}

			for i := 0; i < nursesPerWard; i++ {
				nurse := utils.GenerateRandomNurse(hospital.ID, ward.ID, int32(i+1))
				if err := r.CreateNurse(nurse); err != nil {
					slog.Error("无法插入护士", "error", err)
					return
				}
			}

			slog.Info("病区数据就绪", "hospital", hospitalName, "ward", wardName, "nurses", nursesPerWard)
		}
	}
}

// SeedHolidays 为某个病区的现役护士插入某年的随机休假记录，
// 每个护士随机挑几天
func SeedHolidays(r *repository.Repository, hospitalID int64, wardID int64, year int32, daysPerNurse int) {
	nurses, err := r.GetActiveNursesByWard(hospitalID, wardID)
	if err != nil {
		slog.Error("无法获取病区护士名册", "error", err)
		return
	}

	cnt := 0
	for _, nurse := range nurses {
		for i := 0; i < daysPerNurse; i++ {
			month := int32(rand.Intn(12) + 1)
			day := int32(rand.Intn(int(domain.DaysInMonth(year, month))) + 1)

			entry := &domain.HolidayEntry{
				NurseID: nurse.ID,
				Date:    domain.MakeDateKey(year, month, day),
				Year:    year,
				Type:    utils.GenerateRandomLeaveType(),
			}
			if err := r.CreateHolidayEntry(entry); err != nil {
				// 同一护士同一天重复时跳过即可
				slog.Warn("无法插入休假记录", "error", err)
				continue
			}
			cnt++
		}
	}

	slog.Info("插入休假记录成功", "count", cnt)
}

package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/Uranian/nurse-shift-planner-sub000/internal/config"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/repository"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/seed"
	"github.com/Uranian/nurse-shift-planner-sub000/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var hospitalID int64
	var wardID int64
	var year int

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机用户, 2: 插入医院/病区/护士参考数据, 3: 插入随机休假记录)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量（op=1 时是用户数，op=3 时是每个护士的休假天数）")
	flag.Int64Var(&hospitalID, "hospital-id", 0, "医院 ID（op=3 时必填）")
	flag.Int64Var(&wardID, "ward-id", 0, "病区 ID（op=3 时必填）")
	flag.IntVar(&year, "year", time.Now().Year(), "休假记录的年份")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// 读取配置文件
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("无法读取配置文件", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 创建数据库连接池
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("无法创建数据库连接池", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open 只是创建数据库连接池对象，并不会立即连接到数据库，因此需要显式地 ping 一下
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("无法连接到数据库", "error", err)
		return
	}

	// 创建 repository
	repo := repository.NewRepository(cfg, dbpool)

	// 执行操作
	switch op {
	case 0:
		slog.Error("未指定操作")
	case 1:
		if n <= 0 {
			slog.Error("请输入合法的用户数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
				if err != nil {
					slog.Error("无法生成随机用户", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateUser(user); err != nil {
					slog.Error("无法插入用户", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入用户成功", slog.Int("count", n-cnt))
		}
	case 2:
		seed.SeedReferenceData(repo)
	case 3:
		if hospitalID <= 0 || wardID <= 0 {
			slog.Error("请输入合法的医院 ID 和病区 ID")
			return
		}
		if n <= 0 {
			slog.Error("请输入合法的休假天数")
			return
		}
		seed.SeedHolidays(repo, hospitalID, wardID, int32(year), n)
	default:
		slog.Error("指定的操作非法")
	}
}

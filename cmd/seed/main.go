package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/tshso-dev/hospital-ops/backend/internal/config"
	"github.com/tshso-dev/hospital-ops/backend/internal/domain"
	"github.com/tshso-dev/hospital-ops/backend/internal/repository"
	"github.com/tshso-dev/hospital-ops/backend/internal/seed"
	"github.com/tshso-dev/hospital-ops/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var departmentCode string
	var shiftParam string
	var roomType string

	flag.IntVar(&op, "op", 0, "要执行的操作 (1: 插入随机护士, 2: 插入手术室基础数据, 3: 插入随机排班草稿)")
	flag.IntVar(&n, "n", 5, "要插入的记录数量")
	flag.StringVar(&departmentCode, "department-code", "SUR", "科室编码")
	flag.StringVar(&shiftParam, "shift", "morning", "随机排班草稿的目标班别")
	flag.StringVar(&roomType, "room-type", "一般手术室", "随机排班草稿的手术室类型")
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
			slog.Error("请输入合法的护士数量")
		} else {
			cnt := n
			for i := 0; i < n; i++ {
				nurse, err := utils.GenerateRandomNurse(cfg.Seed.Nurse.Password, cfg.Email.UserDomain, departmentCode)
				if err != nil {
					slog.Error("无法生成随机护士", slog.String("error", err.Error()))
					continue
				}

				if err := repo.CreateEmployee(nurse); err != nil {
					slog.Error("无法插入护士", slog.String("error", err.Error()))
					continue
				}

				cnt--
			}

			slog.Info("插入护士成功", slog.Int("count", n-cnt))
		}
	case 2:
		seed.SeedSurgeryRooms(repo)
	case 3:
		shift, err := domain.ParseShift(shiftParam)
		if err != nil {
			slog.Error("无法解析班别", slog.String("error", err.Error()))
			return
		}

		// 把本科室还没有排班的护士随机编成草稿
		nurses, err := repo.GetEligibleNurses(departmentCode, &shift)
		if err != nil {
			slog.Error("无法获取可排班护士", slog.String("error", err.Error()))
			return
		}
		if len(nurses) == 0 {
			slog.Error("科室中没有可排班的护士", slog.String("department_code", departmentCode))
			return
		}
		if n > len(nurses) {
			n = len(nurses)
		}

		drafts := make([]domain.DraftNurse, 0, n)
		for _, nurse := range nurses[:n] {
			drafts = append(drafts, domain.DraftNurse{
				EmployeeID: nurse.EmployeeID,
				Name:       nurse.Name,
				DayOffWeek: utils.GenerateRandomDayOffs(),
			})
		}

		result, err := repo.BatchSaveDraft(shift, map[string][]domain.DraftNurse{roomType: drafts})
		if err != nil {
			slog.Error("无法保存排班草稿", slog.String("error", err.Error()))
			return
		}

		slog.Info("插入排班草稿成功", slog.Int("success", result.SuccessCount), slog.Int("failed", result.ErrorCount))
	default:
		slog.Error("指定的操作非法")
	}
}

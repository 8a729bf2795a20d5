package main

import (
	"os"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/streamhub/internal/config"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/utils"
	"gorm.io/gorm"
)

var cfg *config.Config

func main() {
	root := &cobra.Command{
		Use:           "streamhub",
		Short:         "视频点播目录 API 服务",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// 加载环境变量
			if err := godotenv.Load(); err != nil {
				log.Debug().Msg("未找到 .env 文件，使用系统环境变量")
			}
			cfg = config.Load()
			utils.InitLogger(cfg.LogLevel, cfg.LogFile, !cfg.IsProduction())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.AddCommand(newServeCmd(), newMigrateCmd(), newCreateAdminCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("命令执行失败")
		os.Exit(1)
	}
}

// openDB 连接数据库并同步表结构
func openDB() (*gorm.DB, error) {
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

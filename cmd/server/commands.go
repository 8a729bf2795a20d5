package main

import (
	"errors"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/service"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "同步数据库表结构",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			sqlDB, _ := db.DB()
			defer sqlDB.Close()

			log.Info().Msg("数据库表结构已同步")
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "创建管理员账号，邮箱已存在时提升为管理员",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("ADMIN_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("必须指定 --email 和 --password（或 ADMIN_PASSWORD）")
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			sqlDB, _ := db.DB()
			defer sqlDB.Close()

			repos := repository.NewRepositories(db)
			users := service.NewUserService(repos, service.NewProfileService(repos))
			user, err := users.EnsureAdmin(cmd.Context(), name, email, password)
			if err != nil {
				return err
			}

			log.Info().Uint("id", user.ID).Str("email", user.Email).Msg("管理员账号已就绪")
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "Admin", "管理员名称")
	cmd.Flags().StringVar(&email, "email", "", "管理员邮箱")
	cmd.Flags().StringVar(&password, "password", "", "管理员密码")
	return cmd
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/libdesk/libdesk/config"
	"github.com/libdesk/libdesk/database"
	"github.com/libdesk/libdesk/database/model"
	"github.com/libdesk/libdesk/logger"
	"github.com/libdesk/libdesk/web"
	"github.com/libdesk/libdesk/web/service"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"
)

func initLogger() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func openDB() error {
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return err
	}
	return database.InitDB(dbConfig)
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())
	initLogger()
	defer logger.CloseLogger()

	if err := openDB(); err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()

	server := web.NewServer()
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	// Trap shutdown signals
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGTERM, os.Interrupt)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("received SIGHUP, restarting web server")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer()
			if err := server.Start(); err != nil {
				log.Println(err)
				return
			}
		default:
			logger.Info("received", sig, "shutting down")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	if err := openDB(); err != nil {
		log.Fatal(err)
	}
	defer database.CloseDB()
	fmt.Println("Migration done!")
}

func addUser(username, password, role string) {
	if err := openDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.NewUserService(database.GetDB())
	user, err := userService.AddUser(username, password, model.Role(role))
	if err != nil {
		fmt.Println("add user failed:", err)
		return
	}
	fmt.Printf("user %s added with id %d\n", user.Username, user.Id)
}

func resetPassword(username, password string) {
	if err := openDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.NewUserService(database.GetDB())
	if err := userService.ResetPassword(username, password); err != nil {
		fmt.Println("reset password failed:", err)
		return
	}
	fmt.Println("reset password success")
}

func listUsers() {
	if err := openDB(); err != nil {
		fmt.Println(err)
		return
	}
	defer database.CloseDB()

	userService := service.NewUserService(database.GetDB())
	users, err := userService.GetUsers()
	if err != nil {
		fmt.Println("list users failed:", err)
		return
	}
	out, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(string(out))
}

func main() {
	// a missing .env is fine, the environment may already be set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Println("load .env:", err)
	}

	var rootCmd = &cobra.Command{
		Use:     config.GetName(),
		Short:   "Library management panel",
		Version: config.GetVersion(),
	}

	var runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed the admin account",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	var userCmd = &cobra.Command{
		Use:   "user",
		Short: "Manage login accounts",
	}

	var userAddCmd = &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			role, _ := cmd.Flags().GetString("role")
			addUser(username, password, role)
		},
	}
	userAddCmd.Flags().String("username", "", "login username")
	userAddCmd.Flags().String("password", "", "login password")
	userAddCmd.Flags().String("role", string(model.RoleStudent), "admin or student")
	_ = userAddCmd.MarkFlagRequired("username")
	_ = userAddCmd.MarkFlagRequired("password")

	var userResetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Reset the password of a user",
		Run: func(cmd *cobra.Command, args []string) {
			username, _ := cmd.Flags().GetString("username")
			password, _ := cmd.Flags().GetString("password")
			resetPassword(username, password)
		},
	}
	userResetCmd.Flags().String("username", "", "login username")
	userResetCmd.Flags().String("password", "", "new password")
	_ = userResetCmd.MarkFlagRequired("username")
	_ = userResetCmd.MarkFlagRequired("password")

	var userListCmd = &cobra.Command{
		Use:   "list",
		Short: "List users as JSON",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	}

	userCmd.AddCommand(userAddCmd, userResetCmd, userListCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, userCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

package main

import (
	"embed"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/kwkoo/configparser"

	"github.com/khoh/go-quizrunner/internal"
	"github.com/khoh/go-quizrunner/internal/api"
	"github.com/khoh/go-quizrunner/internal/logger"
	"github.com/khoh/go-quizrunner/internal/shutdown"
)

const authRealm = "Quiz Admin"

//go:embed docroot/*
var content embed.FS

func main() {
	// a missing .env is fine - the environment may be set directly
	_ = godotenv.Load()

	config := struct {
		Port           int    `default:"8080" usage:"HTTP listener port"`
		Docroot        string `usage:"HTML document root - will use the embedded docroot if not specified"`
		RedisHost      string `usage:"Redis host and port - banks are memory-only if not specified"`
		RedisPassword  string `usage:"Redis password"`
		BankFile       string `usage:"JSON file with question banks to ingest at startup"`
		AdminUser      string `default:"admin" usage:"Admin username"`
		AdminPassword  string `usage:"Admin password"`
		RunTimeout     int    `default:"3600" usage:"Seconds of inactivity before a run is discarded - 0 disables expiry"`
		ShuffleAnswers bool   `usage:"Shuffle answer options per run in addition to question order"`
		Env            string `default:"development" usage:"Application environment (development, production)"`
	}{}
	if err := configparser.Parse(&config); err != nil {
		log.Fatal(err)
	}

	zlog, err := logger.New(config.Env)
	if err != nil {
		log.Fatalf("could not initialize logger: %v", err)
	}
	defer zlog.Sync()
	sugar := zlog.Sugar()

	shutdown.InitShutdownHandler()

	var engine *internal.PersistenceEngine
	if config.RedisHost != "" {
		engine = internal.InitRedis(config.RedisHost, config.RedisPassword, sugar)
		engine.WaitForRedis()
	}

	banks, err := internal.InitBanks(engine, sugar)
	if err != nil {
		sugar.Fatalf("could not initialize question banks: %v", err)
	}
	if config.BankFile != "" {
		if err := banks.LoadFile(config.BankFile); err != nil {
			sugar.Fatalf("could not load bank file: %v", err)
		}
	}

	runs := internal.InitRuns(banks, config.RunTimeout, config.ShuffleAnswers, sugar)

	hub := internal.NewHub(banks, runs, sugar)
	go hub.Run()

	var filesystem http.FileSystem
	if len(config.Docroot) > 0 {
		sugar.Infof("using %s in the file system as the document root", config.Docroot)
		filesystem = http.Dir(config.Docroot)
	} else {
		sugar.Info("using the embedded filesystem as the docroot")

		subdir, err := fs.Sub(content, "docroot")
		if err != nil {
			sugar.Fatalf("could not get subdirectory: %v", err)
		}
		filesystem = http.FS(subdir)
	}

	auth := api.InitAuth(config.AdminUser, config.AdminPassword, authRealm, sugar)

	fileServer := http.FileServer(filesystem).ServeHTTP

	cookieGen := internal.InitCookieGenerator(fileServer, sugar)
	http.HandleFunc("/", cookieGen.ServeHTTP)

	restapi := api.InitRestApi(hub, sugar)
	http.HandleFunc("/api/", auth.BasicAuth(restapi.ServeHTTP))

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		internal.ServeWs(hub, w, r)
	})

	go func() {
		sugar.Infof("listening on port %d", config.Port)
		if err := http.ListenAndServe(fmt.Sprintf(":%d", config.Port), nil); err != nil {
			sugar.Fatalf("http server exited: %v", err)
		}
	}()

	shutdown.WaitForShutdown()
	engine.Close()
	sugar.Info("shutdown complete")
}

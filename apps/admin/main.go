package main

import (
	"log"
	"os"

	"github.com/campusops/registrar/core"
	"github.com/campusops/registrar/core/catalog"
	"github.com/campusops/registrar/core/override"
	emailsvc "github.com/campusops/registrar/services/email"
	logsvc "github.com/campusops/registrar/services/logger"
	"github.com/campusops/registrar/storage/database"
	sqlxrepos "github.com/campusops/registrar/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf, err := core.LoadConfig()
	errAndDie(err)

	var logSvc core.Logger
	if conf.RollbarToken != "" {
		logSvc = logsvc.NewRollbarLogger(logger, conf)
	} else {
		logSvc = logsvc.NewStdLogger(logger)
	}

	var mailSvc core.EmailService
	if conf.SendgridApiKey != "" {
		mailSvc = emailsvc.NewSendgridService(conf, logSvc)
	} else {
		mailSvc = emailsvc.NewConsoleService(conf)
	}

	// set up DB
	db, err := database.Open(conf)
	errAndDie(err)
	defer func() { _ = db.Close() }()

	cli := commandLine{
		catalogSvc:  catalog.NewService(sqlxrepos.NewCatalogRepository(db), logSvc),
		overrideSvc: override.NewService(sqlxrepos.NewOverrideRepository(db), mailSvc, logSvc, conf),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}

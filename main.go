package main

import (
	"log"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/grafov/bcast"
	"github.com/ilyakaznacheev/cleanenv"

	"sessions-finder/loader"
	"sessions-finder/store"
)

type Configuration struct {
	Address                  string        `yaml:"Address" env:"ADDRESS" env-default:":8080"`
	EventName                string        `yaml:"EventName" env:"EVENT_NAME"`
	ScheduleURL              string        `yaml:"ScheduleUrl" env:"SCHEDULE_URI"`
	SelfOrganizedScheduleURL string        `yaml:"SelfOrganizedScheduleUrl" env:"SELF_ORGANIZED_SCHEDULE_URI"`
	UseFakeEvents            bool          `yaml:"UseFakeEvents" env:"USE_FAKE_EVENTS"`
	FixtureFile              string        `yaml:"FixtureFile" env:"FIXTURE_FILE" env-default:"db.json"`
	ScheduleRefresh          time.Duration `yaml:"ScheduleRefresh" env:"SCHEDULE_REFRESH" env-default:"5m"`
}

// refreshSchedule loads both feeds now and then on every tick. Each cycle
// is numbered; the store drops results that arrive out of order.
func refreshSchedule(interval time.Duration, cfg loader.Config, resultChannel *bcast.Member) {
	ticker := time.NewTicker(interval)

	go func() {
		var generation uint64
		load := func() {
			generation++
			snapshot, err := loader.Load(cfg)
			if err != nil {
				log.Printf("failed to load schedule: %v", err)
			} else {
				log.Printf("load %s: %d events (main %s, self-organized %s)",
					snapshot.LoadID, len(snapshot.Events), snapshot.MainVersion, snapshot.SelfOrganizedVersion)
			}
			resultChannel.Send(&loader.Result{Generation: generation, Snapshot: snapshot, Err: err})
		}
		load()
		for range ticker.C {
			load()
		}
	}()
}

func main() {
	cfg := new(Configuration)
	if err := cleanenv.ReadConfig("config.yml", cfg); err != nil {
		log.Fatal("Failed to load Config: ", err)
	}

	resultGroup := bcast.NewGroup()
	go resultGroup.Broadcast(0)

	s := store.NewStore(resultGroup.Join())

	refreshSchedule(cfg.ScheduleRefresh, loader.Config{
		ScheduleURL:              cfg.ScheduleURL,
		SelfOrganizedScheduleURL: cfg.SelfOrganizedScheduleURL,
		UseFakeEvents:            cfg.UseFakeEvents,
		FixtureFile:              cfg.FixtureFile,
	}, resultGroup.Join())

	app := fiber.New()
	app.Use(cors.New())

	registerAPI(app, cfg, s)

	ln, err := net.Listen("tcp", cfg.Address)
	if err != nil {
		log.Fatal(err)
	}
	log.Fatal(app.Listener(ln))
}

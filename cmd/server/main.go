// Command server runs a standalone block-world sandbox server.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"

	"github.com/mars762/server/pkg/server"
)

func main() {
	address := flag.String("address", "127.0.0.1:25565", "address to listen on")
	maxPlayers := flag.Int("max-players", 20, "maximum number of players advertised in the status document")
	motd := flag.String("motd", "A mars.rs-compatible Go server", "server message of the day")
	seed := flag.Int64("seed", 0, "world seed (0 = random, seeded from the current time)")
	verbose := flag.BoolP("verbose", "v", false, "enable debug logging")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	config := server.Config{
		Address:    *address,
		MaxPlayers: *maxPlayers,
		MOTD:       *motd,
		Seed:       *seed,
	}

	srv := server.New(config)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	srv.Stop()
}

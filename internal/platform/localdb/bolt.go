package localdb

import (
	"log"
	"time"

	"github.com/Roja8626/tech-mock/internal/platform/config"

	bolt "go.etcd.io/bbolt"
)

var DB *bolt.DB

// Open opens the single-file store at BOLT_PATH. The file lock means only one
// process can hold it, which is the single-writer model the collection store
// assumes.
func Open() {
	var err error
	DB, err = bolt.Open(config.AppConfig.BoltPath, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		log.Fatalf("Could not open bolt database %s: %v", config.AppConfig.BoltPath, err)
	}
	log.Printf("INFO: Opened local bolt database at %s", config.AppConfig.BoltPath)
}

func Close() {
	if DB != nil {
		DB.Close()
		log.Println("INFO: Local bolt database closed")
	}
}

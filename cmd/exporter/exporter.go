// cmd/exporter/exporter.go is an asynchronous exporter service that pops settled-round
// records from a Redis queue and persists them to the round_audit table in PostgreSQL.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/janlog/janlog/internal/cache"
	"github.com/janlog/janlog/internal/database"
	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
)

// ExporterService encapsulates the Redis + DB logic for draining the audit
// queue in batches.
type ExporterService struct {
	redisClient *redis.Client
	batchSize   int
	flushDelay  time.Duration

	batchMu  sync.Mutex
	batch    []cache.RoundRecord
	ctx      context.Context
	cancelFn context.CancelFunc
}

// NewExporterService constructs an ExporterService instance from environment variables or defaults.
func NewExporterService() *ExporterService {
	batchSize := getEnvInt("EXPORTER_BATCH_SIZE", 20)
	flushMs := getEnvInt("EXPORTER_FLUSH_MS", 500)

	redisAddr := getEnv("REDIS_ADDR", "localhost:6379")
	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithCancel(context.Background())
	return &ExporterService{
		redisClient: rdb,
		batchSize:   batchSize,
		flushDelay:  time.Duration(flushMs) * time.Millisecond,
		batch:       make([]cache.RoundRecord, 0, batchSize),
		ctx:         ctx,
		cancelFn:    cancel,
	}
}

// Run connects to the database and drains the queue until stopped.
func (es *ExporterService) Run() {
	database.ConnectDB()

	go es.readRedisLoop()

	log.Println("janlog-exporter service started.")
	<-es.ctx.Done()
	log.Println("janlog-exporter shutting down.")
}

// readRedisLoop continuously uses BLPop to retrieve records from the Redis queue.
func (es *ExporterService) readRedisLoop() {
	ticker := time.NewTicker(es.flushDelay)
	defer ticker.Stop()

	queueName := getEnv("EXPORTER_QUEUE_NAME", cache.DefaultQueueName)

	for {
		select {
		case <-es.ctx.Done():
			return

		case <-ticker.C:
			es.flushBatchToDB()

		default:
			// Use BLPop with a 3-second timeout so that context cancellation is handled.
			res, err := es.redisClient.BLPop(es.ctx, 3*time.Second, queueName).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				log.Printf("[ERROR] BLPop: %v\n", err)
				continue
			}
			if len(res) < 2 {
				// No message popped.
				continue
			}

			// res[0] is the queue name and res[1] the payload.
			var record cache.RoundRecord
			if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
				log.Printf("invalid round record: %v\n", err)
				continue
			}
			es.appendToBatch(record)
		}
	}
}

// appendToBatch adds a record to the in-memory batch and flushes if the threshold is reached.
func (es *ExporterService) appendToBatch(record cache.RoundRecord) {
	es.batchMu.Lock()
	defer es.batchMu.Unlock()

	es.batch = append(es.batch, record)
	if len(es.batch) >= es.batchSize {
		es.flushLocked()
	}
}

// flushBatchToDB flushes the current batch to the database in a single transaction.
func (es *ExporterService) flushBatchToDB() {
	es.batchMu.Lock()
	defer es.batchMu.Unlock()
	es.flushLocked()
}

// flushLocked does the actual flush; callers must hold batchMu.
func (es *ExporterService) flushLocked() {
	if len(es.batch) == 0 {
		return
	}
	batchCopy := make([]cache.RoundRecord, len(es.batch))
	copy(batchCopy, es.batch)
	es.batch = es.batch[:0]

	ctx := context.Background()
	err := beginTxFunc(ctx, database.DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range batchCopy {
			if err := insertAuditRecordTx(ctx, tx, rec); err != nil {
				return fmt.Errorf("insertAuditRecordTx: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ERROR] flushBatchToDB: %v\n", err)
	} else {
		log.Printf("Flushed %d round records to DB.\n", len(batchCopy))
	}
}

// insertAuditRecordTx inserts a single settled-round record into round_audit.
func insertAuditRecordTx(ctx context.Context, tx pgx.Tx, rec cache.RoundRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	q := `
		INSERT INTO round_audit (round_id, payload)
		VALUES ($1, $2)
	`
	_, err = tx.Exec(ctx, q, rec.RoundID, payload)
	return err
}

// beginTxFunc is a helper that starts a transaction using the provided pool,
// calls the function f with the transaction, and commits or rollbacks as needed.
func beginTxFunc(ctx context.Context, pool *pgxpool.Pool, txOptions pgx.TxOptions, f func(tx pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}
	if err := f(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("tx rollback error: %v; original error: %w", rbErr, err)
		}
		return err
	}
	return tx.Commit(ctx)
}

// Stop gracefully stops the exporter service.
func (es *ExporterService) Stop() {
	es.cancelFn()
}

// main is the entrypoint.
func main() {
	es := NewExporterService()
	go es.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	es.Stop()
	es.flushBatchToDB()
	log.Println("Exporter shutdown complete.")
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}

package usecase

import (
	"context"
	"database/sql"
	"errors"

	"medical-appointment-booking/internal/delivery/http/middleware"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// txCoordinator runs one operation inside one transaction on one pooled
// connection. A nil error from fn commits; anything else rolls back and is
// classified before it reaches the caller.
type txCoordinator struct {
	db   *gorm.DB
	log  *logrus.Logger
	opts *sql.TxOptions
}

func newTxCoordinator(db *gorm.DB, log *logrus.Logger, isolation sql.IsolationLevel) *txCoordinator {
	var opts *sql.TxOptions
	if isolation != sql.LevelDefault {
		opts = &sql.TxOptions{Isolation: isolation}
	}
	return &txCoordinator{db: db, log: log, opts: opts}
}

// run executes fn in a transaction. fkKind is the domain kind a foreign key
// violation is reported as; zero leaves such violations unclassified.
func (c *txCoordinator) run(ctx context.Context, op string, fkKind ErrorKind, fn func(tx *gorm.DB) error) error {
	log := c.entry(ctx, op)

	var tx *gorm.DB
	if c.opts != nil {
		tx = c.db.WithContext(ctx).Begin(c.opts)
	} else {
		tx = c.db.WithContext(ctx).Begin()
	}
	if tx.Error != nil {
		log.Errorf("Failed to begin transaction for %s: %+v", op, tx.Error)
		return storeFailure(tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			c.rollback(log, tx, op)
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		c.rollback(log, tx, op)
		return c.classify(log, op, fkKind, err)
	}

	if err := tx.Commit().Error; err != nil {
		log.Errorf("Failed commit transaction for %s: %+v", op, err)
		return storeFailure(err)
	}
	return nil
}

// entry tags every line logged for op with the request id set by the HTTP
// logging middleware, when there is one.
func (c *txCoordinator) entry(ctx context.Context, op string) *logrus.Entry {
	log := c.log.WithField("op", op)
	if requestID, ok := middleware.GetRequestIDFromContext(ctx); ok {
		log = log.WithField("request_id", requestID.String())
	}
	return log
}

func (c *txCoordinator) rollback(log *logrus.Entry, tx *gorm.DB, op string) {
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		log.Warnf("Failed rollback transaction for %s: %+v", op, err)
	}
}

func (c *txCoordinator) classify(log *logrus.Entry, op string, fkKind ErrorKind, err error) error {
	if kind, ok := KindOf(err); ok {
		log.Warnf("%s rejected: %s (code %d)", op, kind, kind.Code())
		return err
	}
	if fkKind != 0 && isForeignKeyError(err) {
		log.Warnf("%s rejected by foreign key: %+v", op, err)
		return &AppointmentError{Kind: fkKind}
	}
	log.Errorf("Failed %s: %+v", op, err)
	return storeFailure(err)
}

package synclog

import (
	"WooWithFeed/internal/database"
	"WooWithFeed/pkg/logging"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// Append writes one audit row. The payload is stored as a JSON snapshot and is
// never read back for control flow.
func Append(e sqlx.Ext, logType, action, entity string, entityID int64, payload interface{}, note string) error {

	logger := logging.GetLogger()
	logger.Debug("SyncLog.Append:>Start")
	defer logger.Debug("SyncLog.Append:>End")

	var payloadJSON sql.NullString
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Wrap(err, "failed json.Marshal() of payload")
		}
		payloadJSON = sql.NullString{String: string(b), Valid: true}
	}

	var noteNull sql.NullString
	if note != "" {
		noteNull = sql.NullString{String: note, Valid: true}
	}

	query := `INSERT INTO SyncLog (Type, Action, Entity, EntityID, Payload, Note, CreatedAt)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`
	_, err := e.Exec(query, logType, action, entity,
		sql.NullInt64{Int64: entityID, Valid: entityID != 0},
		payloadJSON, noteNull, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return errors.Wrapf(err, "failed INSERT to dbsqlite; query:\n%s(%s, %s, %s)", query, logType, action, entity)
	}

	return nil
}

// SelectByEntity returns the audit trail of one entity, newest last.
func SelectByEntity(e sqlx.Ext, entity string, entityID int64) ([]*database.SyncLog, error) {

	logger := logging.GetLogger()
	logger.Debug("SyncLog.SelectByEntity:>Start")
	defer logger.Debug("SyncLog.SelectByEntity:>End")

	var rows []*database.SyncLog
	query := "SELECT * FROM SyncLog WHERE Entity=$1 AND EntityID=$2 ORDER BY ID;"
	err := sqlx.Select(e, &rows, query, entity, entityID)
	if err != nil {
		return nil, errors.Wrapf(err, "failed SELECT to dbsqlite; query:\n%s(%s, %d)", query, entity, entityID)
	}

	return rows, nil
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/dogmatiq/marshalkit"
	"github.com/fieldpos/syncqueue/internal/x/sqlx"
)

// SelectDocument returns the packet stored under k in the ns namespace.
func (driver) SelectDocument(
	ctx context.Context,
	db *sql.DB,
	ns, k string,
) (marshalkit.Packet, bool, error) {
	row := db.QueryRowContext(
		ctx,
		`SELECT
			media_type,
			data
		FROM syncqueue.document
		WHERE namespace = $1
		AND doc_key = $2`,
		ns,
		k,
	)

	var p marshalkit.Packet
	err := row.Scan(&p.MediaType, &p.Data)
	if err == sql.ErrNoRows {
		return marshalkit.Packet{}, false, nil
	}

	return p, err == nil, err
}

// UpsertDocument stores p under k in the ns namespace, replacing any existing
// document.
func (driver) UpsertDocument(
	ctx context.Context,
	db *sql.DB,
	ns, k string,
	p marshalkit.Packet,
) (err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(
		ctx,
		db,
		`INSERT INTO syncqueue.document (
			namespace,
			doc_key,
			media_type,
			data
		) VALUES (
			$1, $2, $3, $4
		) ON CONFLICT (namespace, doc_key) DO UPDATE SET
			media_type = EXCLUDED.media_type,
			data = EXCLUDED.data`,
		ns,
		k,
		p.MediaType,
		p.Data,
	)

	return nil
}

// DeleteDocument removes the document stored under k in the ns namespace.
func (driver) DeleteDocument(
	ctx context.Context,
	db *sql.DB,
	ns, k string,
) (err error) {
	defer sqlx.Recover(&err)

	sqlx.Exec(
		ctx,
		db,
		`DELETE FROM syncqueue.document
		WHERE namespace = $1
		AND doc_key = $2`,
		ns,
		k,
	)

	return nil
}

// createDocumentSchema creates schema elements for documents.
func createDocumentSchema(ctx context.Context, db sqlx.DB) {
	sqlx.Exec(
		ctx,
		db,
		`CREATE TABLE IF NOT EXISTS syncqueue.document (
			namespace  TEXT NOT NULL,
			doc_key    TEXT NOT NULL,
			media_type TEXT NOT NULL,
			data       BYTEA NOT NULL,

			PRIMARY KEY (namespace, doc_key)
		)`,
	)
}

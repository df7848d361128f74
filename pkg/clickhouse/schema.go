package clickhouse

// SchemaStatements returns the idempotent DDL for the feature and signal
// tables in the given database.
func SchemaStatements(database string) []string {
	return []string{
		"CREATE DATABASE IF NOT EXISTS " + database,
		"CREATE TABLE IF NOT EXISTS " + database + `.tweet_features (
            id String,
            ts DateTime64(3, 'UTC'),
            dedup_key String,
            language LowCardinality(String),
            keyword_score Float64,
            embedding_polarity Nullable(Float64)
        ) ENGINE=MergeTree ORDER BY (ts, id)`,
		"CREATE TABLE IF NOT EXISTS " + database + `.daily_signals (
            date Date,
            tweet_volume UInt32,
            buy_pct Float64,
            sell_pct Float64,
            neutral_pct Float64,
            signal LowCardinality(String),
            confidence_pct Float64,
            low_volume UInt8
        ) ENGINE=ReplacingMergeTree ORDER BY date`,
	}
}

package journal

// simulation_results is append-only: one row per (invoice, run), never
// updated or deleted. simulation_snapshots holds the same rows keyed by run
// date so a re-run of the same date replaces its own snapshot and nothing
// else.
const Schema = `
CREATE TABLE IF NOT EXISTS simulation_results (
	invoice_uuid TEXT NOT NULL,
	hedged_eur REAL NOT NULL,
	var_95_eur REAL NOT NULL,
	cvar_95_eur REAL NOT NULL,
	var_percentage REAL NOT NULL,
	hedge_ratio REAL NOT NULL,
	recommendation TEXT NOT NULL,
	prob_loss_positive REAL NOT NULL,
	expected_loss_eur REAL NOT NULL,
	prob_loss_gt_10pct REAL NOT NULL,
	min_loss REAL NOT NULL,
	median_loss REAL NOT NULL,
	max_loss REAL NOT NULL,
	simulation_timestamp TEXT NOT NULL,
	run_date TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_run_date ON simulation_results(run_date);
CREATE INDEX IF NOT EXISTS idx_results_invoice ON simulation_results(invoice_uuid);

CREATE TABLE IF NOT EXISTS simulation_snapshots (
	run_date TEXT NOT NULL,
	invoice_uuid TEXT NOT NULL,
	hedged_eur REAL NOT NULL,
	var_95_eur REAL NOT NULL,
	cvar_95_eur REAL NOT NULL,
	var_percentage REAL NOT NULL,
	hedge_ratio REAL NOT NULL,
	recommendation TEXT NOT NULL,
	prob_loss_positive REAL NOT NULL,
	expected_loss_eur REAL NOT NULL,
	prob_loss_gt_10pct REAL NOT NULL,
	min_loss REAL NOT NULL,
	median_loss REAL NOT NULL,
	max_loss REAL NOT NULL,
	simulation_timestamp TEXT NOT NULL,
	PRIMARY KEY (run_date, invoice_uuid)
);
`

package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE result_bundles (
				id TEXT PRIMARY KEY,
				keyword TEXT NOT NULL,
				title TEXT NOT NULL,
				payload JSONB NOT NULL,
				published_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_result_bundles_published_at ON result_bundles(published_at DESC);
		`,
		2: `
			ALTER TABLE result_bundles ADD COLUMN updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW();
			CREATE INDEX idx_result_bundles_keyword ON result_bundles(keyword);
		`,
	}
}

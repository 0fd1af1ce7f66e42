package database

// InsertProduct records one product's terminal result for a run.
func (db *DB) InsertProduct(runID int64, handle, title string, vendor, productType *string, outcome string, tier *string, meanScore float64, attempts int) (int64, error) {
	result, err := db.conn.Exec(
		`INSERT INTO run_products (run_id, handle, title, vendor, product_type, outcome, tier, mean_score, attempts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, handle, title, vendor, productType, outcome, tier, meanScore, attempts,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertFAQ stores one question/answer pair for a stored product.
func (db *DB) InsertFAQ(productID int64, position int, question, answer string, pairScore int) error {
	_, err := db.conn.Exec(
		`INSERT INTO product_faqs (product_id, position, question, answer, pair_score)
		VALUES (?, ?, ?, ?, ?)`,
		productID, position, question, answer, pairScore,
	)
	return err
}

// GetProductsForRun returns a run's products in insertion order.
func (db *DB) GetProductsForRun(runID int64) ([]RunProduct, error) {
	rows, err := db.conn.Query(
		`SELECT id, run_id, handle, title, vendor, product_type, outcome, tier, mean_score, attempts, created_at
		FROM run_products WHERE run_id = ? ORDER BY id`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []RunProduct
	for rows.Next() {
		var p RunProduct
		if err := rows.Scan(&p.ID, &p.RunID, &p.Handle, &p.Title, &p.Vendor, &p.Type,
			&p.Outcome, &p.Tier, &p.MeanScore, &p.Attempts, &p.CreatedAt); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetFAQsForProduct returns a product's pairs ordered by position.
func (db *DB) GetFAQsForProduct(productID int64) ([]ProductFAQ, error) {
	rows, err := db.conn.Query(
		`SELECT id, product_id, position, question, answer, pair_score
		FROM product_faqs WHERE product_id = ? ORDER BY position`, productID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var faqs []ProductFAQ
	for rows.Next() {
		var f ProductFAQ
		if err := rows.Scan(&f.ID, &f.ProductID, &f.Position, &f.Question, &f.Answer, &f.PairScore); err != nil {
			return nil, err
		}
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// InsertRunError records a per-product failure.
func (db *DB) InsertRunError(runID int64, handle, title, reason string) error {
	_, err := db.conn.Exec(
		"INSERT INTO run_errors (run_id, handle, title, reason) VALUES (?, ?, ?, ?)",
		runID, handle, title, reason,
	)
	return err
}

// GetErrorsForRun returns a run's recorded failures.
func (db *DB) GetErrorsForRun(runID int64) ([]RunError, error) {
	rows, err := db.conn.Query(
		"SELECT id, run_id, handle, title, reason FROM run_errors WHERE run_id = ? ORDER BY id", runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []RunError
	for rows.Next() {
		var e RunError
		if err := rows.Scan(&e.ID, &e.RunID, &e.Handle, &e.Title, &e.Reason); err != nil {
			return nil, err
		}
		errs = append(errs, e)
	}
	return errs, rows.Err()
}

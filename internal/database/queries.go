/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

const (
	// User queries
	queryGetUsers = `
		SELECT id, name, email, password_hash, kyc_level, kyc_status, balance_usdt,
		       referral_code, points, streak_days, last_login_date,
		       wallet_usdt, wallet_btc, wallet_trx, created_at, updated_at
		FROM users
		ORDER BY created_at`

	queryGetUserById = `
		SELECT id, name, email, password_hash, kyc_level, kyc_status, balance_usdt,
		       referral_code, points, streak_days, last_login_date,
		       wallet_usdt, wallet_btc, wallet_trx, created_at, updated_at
		FROM users
		WHERE id = ?`

	queryGetUserByEmail = `
		SELECT id, name, email, password_hash, kyc_level, kyc_status, balance_usdt,
		       referral_code, points, streak_days, last_login_date,
		       wallet_usdt, wallet_btc, wallet_trx, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER(?)`

	queryInsertUser = `
		INSERT INTO users (
			id, name, email, password_hash, kyc_level, kyc_status, balance_usdt,
			referral_code, points, streak_days, last_login_date,
			wallet_usdt, wallet_btc, wallet_trx, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryUpdateUser = `
		UPDATE users
		SET name = ?, password_hash = ?, balance_usdt = ?, kyc_level = ?, kyc_status = ?,
		    points = ?, streak_days = ?, last_login_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`

	// Position queries
	queryGetPositions = `
		SELECT asset_id, amount, avg_buy_price
		FROM positions
		WHERE user_id = ?
		ORDER BY asset_id`

	queryDeletePositions = `
		DELETE FROM positions WHERE user_id = ?`

	queryInsertPosition = `
		INSERT INTO positions (id, user_id, asset_id, amount, avg_buy_price)
		VALUES (?, ?, ?, ?, ?)`

	// Trade receipt queries
	queryInsertTransaction = `
		INSERT INTO transactions (
			id, user_id, type, asset_id, asset_symbol, amount, price, total_cost, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	queryGetTransactionsByUser = `
		SELECT id, user_id, type, asset_id, asset_symbol, amount, price, total_cost, status, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC`

	// Deposit request queries
	queryInsertDeposit = `
		INSERT INTO deposits (id, user_id, user_name, amount, method, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	queryGetDeposit = `
		SELECT id, user_id, user_name, amount, method, status, created_at
		FROM deposits
		WHERE id = ?`

	queryGetDeposits = `
		SELECT id, user_id, user_name, amount, method, status, created_at
		FROM deposits
		ORDER BY created_at DESC`

	queryUpdateDepositStatus = `
		UPDATE deposits SET status = ? WHERE id = ?`

	// Activity log queries
	queryInsertActivityLog = `
		INSERT INTO activity_logs (id, user_id, action, ip, device, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	queryGetActivityLogs = `
		SELECT id, user_id, action, ip, device, created_at
		FROM activity_logs
		WHERE ? = '' OR user_id = ?
		ORDER BY created_at DESC`

	// Session queries
	querySetSession = `
		INSERT INTO session (id, user_id) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id`

	queryGetSession = `
		SELECT user_id FROM session WHERE id = 1`

	queryClearSession = `
		DELETE FROM session WHERE id = 1`
)

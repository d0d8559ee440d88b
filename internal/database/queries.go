package database

// Dish queries
const (
	ListDishesSQL = `
		SELECT id, name, category, price, image, description, ingredients, available, weight
		FROM dishes
		ORDER BY category, name`

	ListAvailableDishesSQL = `
		SELECT id, name, category, price, image, description, ingredients, available, weight
		FROM dishes
		WHERE available = TRUE
		ORDER BY category, name`

	GetDishSQL = `
		SELECT id, name, category, price, image, description, ingredients, available, weight
		FROM dishes WHERE id = $1`

	InsertDishSQL = `
		INSERT INTO dishes (id, name, category, price, image, description, ingredients, available, weight)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	UpdateDishSQL = `
		UPDATE dishes
		SET name = $2, category = $3, price = $4, image = $5, description = $6,
			ingredients = $7, available = $8, weight = $9
		WHERE id = $1
		RETURNING id`

	UpdateDishAvailabilitySQL = `
		UPDATE dishes SET available = $2 WHERE id = $1 RETURNING id`

	DeleteDishSQL = `
		DELETE FROM dishes WHERE id = $1 RETURNING id`
)

// Order queries
const (
	InsertOrderSQL = `
		INSERT INTO orders (id, user_id, items, total_amount, status, delivery_address,
			contact_phone, comment, payment_status, payment_method)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	GetOrderSQL = `
		SELECT id, user_id, created_at, items, total_amount, status, delivery_address,
			contact_phone, comment, payment_status, payment_method, payment_id
		FROM orders WHERE id = $1`

	ListOrdersForUserSQL = `
		SELECT id, user_id, created_at, items, total_amount, status, delivery_address,
			contact_phone, comment, payment_status, payment_method, payment_id
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC`

	ListAllOrdersSQL = `
		SELECT id, user_id, created_at, items, total_amount, status, delivery_address,
			contact_phone, comment, payment_status, payment_method, payment_id
		FROM orders
		ORDER BY created_at DESC`

	UpdateOrderStatusSQL = `
		UPDATE orders SET status = $2 WHERE id = $1
		RETURNING status`

	DeleteOrderSQL = `
		DELETE FROM orders WHERE id = $1 RETURNING id`
)

// Profile queries
const (
	GetProfileSQL = `
		SELECT id, full_name, address, role, email, password_hash
		FROM profiles WHERE id = $1`

	GetProfileByEmailSQL = `
		SELECT id, full_name, address, role, email, password_hash
		FROM profiles WHERE email = $1`

	UpsertProfileSQL = `
		INSERT INTO profiles (id, full_name, address, role, email, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			address = EXCLUDED.address,
			email = EXCLUDED.email`
)

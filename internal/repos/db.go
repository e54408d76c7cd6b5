package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the sqlite database, applies the schema and, when seed is
// set, inserts the demo marketplace into an empty database.
func OpenDB(dsn string, seed bool) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// One connection: sqlite has a single writer, and ":memory:" databases
	// are per-connection.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if !seed {
		return db, nil
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users & Sessions
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  username TEXT,
  profile_picture TEXT,
  bio TEXT,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(LOWER(username)) WHERE username IS NOT NULL;

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Artists & their services
CREATE TABLE IF NOT EXISTS artists(
  id INTEGER PRIMARY KEY,
  user_id INTEGER NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
  portfolio_link TEXT,
  is_verified INTEGER NOT NULL DEFAULT 0,
  rating REAL NOT NULL DEFAULT 0 CHECK (rating >= 0 AND rating <= 5)
);

CREATE TABLE IF NOT EXISTS services(
  id INTEGER PRIMARY KEY,
  artist_id INTEGER NOT NULL REFERENCES artists(id) ON DELETE CASCADE,
  title TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price INTEGER NOT NULL CHECK (price >= 0),
  service_type TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_services_artist ON services(artist_id);

-- Commissions & loves
CREATE TABLE IF NOT EXISTS commissions(
  id INTEGER PRIMARY KEY,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  title TEXT,
  description TEXT NOT NULL,
  total_price INTEGER NOT NULL CHECK (total_price >= 0),
  public_status TEXT NOT NULL DEFAULT 'pending',
  image TEXT,
  loved_count INTEGER NOT NULL DEFAULT 0 CHECK (loved_count >= 0),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_commissions_user ON commissions(user_id);

CREATE TABLE IF NOT EXISTS loves(
  commission_id INTEGER NOT NULL REFERENCES commissions(id) ON DELETE CASCADE,
  user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  PRIMARY KEY (commission_id, user_id)
);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id INTEGER PRIMARY KEY,
  commission_id INTEGER NOT NULL REFERENCES commissions(id) ON DELETE RESTRICT,
  buyer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  total_price INTEGER NOT NULL CHECK (total_price >= 0),
  status TEXT NOT NULL DEFAULT 'pending',
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer ON orders(buyer_id);
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Direct messages
CREATE TABLE IF NOT EXISTS messages(
  id INTEGER PRIMARY KEY,
  sender_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  recipient_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  body TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_sender ON messages(sender_id);
CREATE INDEX IF NOT EXISTS idx_messages_recipient ON messages(recipient_id);
`
	_, err := db.Exec(schema)
	return err
}

const seedPassword = "Passw0rd!"

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/artists/commissions/orders/messages")

	h, err := bcrypt.GenerateFromPassword([]byte(seedPassword), 12)
	if err != nil {
		return err
	}
	hash := string(h)

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	tx.MustExec(`INSERT INTO users(id,name,username,profile_picture,bio,email,password_hash) VALUES
	  (1,'John Doe','johndoe','/static/placeholder.svg?height=32&width=32',NULL,'john@bergambar.test',?),
	  (2,'Alice Johnson','alice_art','/static/placeholder.svg?height=150&width=150',
	   'Professional digital artist specializing in character design and illustrations. 5+ years of experience creating artwork for games, books, and personal commissions.',
	   'alice@example.com',?),
	  (3,'Bob Smith','bob_design','/static/placeholder.svg?height=100&width=100',NULL,'bob@example.com',?),
	  (4,'Carol Williams','carol_creates','/static/placeholder.svg?height=100&width=100',NULL,'carol@example.com',?)`,
		hash, hash, hash, hash)

	tx.MustExec(`INSERT INTO artists(id,user_id,portfolio_link,is_verified,rating) VALUES
	  (1,2,'https://alice-art.com',1,4.9),
	  (2,3,'https://bob-designs.com',0,4.7),
	  (3,4,'https://carol-creative.com',1,4.8)`)

	tx.MustExec(`INSERT INTO services(artist_id,title,description,price,service_type) VALUES
	  (1,'Character Design','Custom character illustrations for games, books, or personal use',150,'illustration'),
	  (1,'Portrait Commission','Digital portraits in various styles',100,'portrait'),
	  (2,'Logo Refresh','Modernize an existing logo for web and print',120,'branding'),
	  (3,'Brand Identity','Logo, palette and type system for a new brand',300,'branding')`)

	tx.MustExec(`INSERT INTO commissions(id,user_id,title,description,total_price,public_status,image,loved_count) VALUES
	  (1,2,'Fantasy Character Design','Fantasy character design with magical elements and detailed armor',250,'completed','/static/placeholder.svg?height=300&width=400',32),
	  (2,3,'Portrait Commission','Portrait commission in anime style',150,'in_progress','/static/placeholder.svg?height=300&width=400',18),
	  (3,4,'Logo Design','Logo design for tech startup with modern aesthetic',300,'completed','/static/placeholder.svg?height=300&width=400',45),
	  (4,1,'Mountain Landscape','Beautiful landscape painting with mountains and sunset',150,'in_progress',NULL,24)`)

	tx.MustExec(`INSERT INTO orders(id,commission_id,buyer_id,total_price,status,created_at) VALUES
	  (1,1,1,250,'completed','2024-01-15T10:30:00Z'),
	  (2,2,1,150,'in_progress','2024-01-10T14:20:00Z'),
	  (3,3,1,300,'pending','2024-01-08T09:15:00Z')`)

	// Oldest first so the highest id per conversation is its latest message.
	tx.MustExec(`INSERT INTO messages(sender_id,recipient_id,body,created_at) VALUES
	  (1,4,'Is the logo ready for review?',strftime('%Y-%m-%dT%H:%M:%SZ','now','-4 days')),
	  (4,1,'The artwork is ready for review!',strftime('%Y-%m-%dT%H:%M:%SZ','now','-3 days')),
	  (3,1,'Could you provide more details about the style you want?',strftime('%Y-%m-%dT%H:%M:%SZ','now','-1 days')),
	  (1,2,'I would love a character in your style.',strftime('%Y-%m-%dT%H:%M:%SZ','now','-3 hours')),
	  (2,1,'Thanks for the commission! I''ll start working on it right away.',strftime('%Y-%m-%dT%H:%M:%SZ','now','-2 hours'))`)

	return tx.Commit()
}

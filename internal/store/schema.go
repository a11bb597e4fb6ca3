package store

const Schema = `
CREATE TABLE IF NOT EXISTS guestbook (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	message TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_guestbook_created_at ON guestbook(created_at DESC);

CREATE TABLE IF NOT EXISTS blog (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	content TEXT NOT NULL,
	slug TEXT NOT NULL,
	description TEXT DEFAULT '',
	published BOOLEAN DEFAULT 0,
	tags TEXT DEFAULT '[]',  -- JSON array
	author TEXT DEFAULT 'dvop',
	featured_image TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_blog_created_at ON blog(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_blog_slug ON blog(slug);

CREATE TABLE IF NOT EXISTS played_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	signature TEXT NOT NULL,
	title TEXT,
	artist TEXT,
	album TEXT,
	album_art TEXT,
	source TEXT,
	player TEXT,
	played_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_played_history_played_at ON played_history(played_at DESC);

CREATE TABLE IF NOT EXISTS status_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	ok INTEGER NOT NULL,
	degraded INTEGER NOT NULL,
	down INTEGER NOT NULL,
	total INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_status_history_created_at ON status_history(created_at DESC);
`

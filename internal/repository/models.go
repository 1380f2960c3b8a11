package repository

import "gorm.io/gorm"

// Models lists every GORM model owned by this package, in creation order.
func Models() []any {
	return []any{&ProfileModel{}, &PhotoModel{}, &VideoModel{}, &BookmarkModel{}}
}

// AutoMigrate creates or updates the tables from the GORM models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

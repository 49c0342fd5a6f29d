package config

import (
	"gorm.io/gorm"
)

// DB is a global variable to hold the database connection
var DB *gorm.DB

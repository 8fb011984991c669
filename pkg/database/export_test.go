package database

var ReleaseMigrationsLock = releaseMigrationsLock

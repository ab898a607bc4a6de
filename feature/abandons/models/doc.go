// Package models defines the archive tables of report runs.
package models

// Package models defines the persisted log configuration and its API shapes.
package models

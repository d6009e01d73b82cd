// Package models defines the core data structures for users, cameras, and alerts.
package models

import "time"

// User represents an application account with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the login name chosen by the user.
	Username string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// CreatedAt is the time the account was registered.
	CreatedAt time.Time
}

// PublicUser is the externally visible projection of a User.
// The password hash is never serialized.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Public returns the user's public fields.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username}
}

// Camera represents a registered camera source owned by a user.
type Camera struct {
	// ID is the unique identifier for the camera.
	ID string `json:"id"`
	// Name is the display name of the camera.
	Name string `json:"name"`
	// RTSPURL is the source URL the worker connects to.
	RTSPURL string `json:"rtspUrl"`
	// Location is a free-text description of where the camera is.
	Location string `json:"location"`
	// Enabled reports whether a stream has been started for this camera.
	Enabled bool `json:"enabled"`
	// UserID references the owning user.
	UserID string `json:"userId"`
	// CreatedAt is the time the camera was registered.
	CreatedAt time.Time `json:"createdAt"`
}

// Alert represents a detection event reported for a camera.
// Alerts are immutable once created and reference their camera weakly:
// an alert outlives the deletion of its camera.
type Alert struct {
	// ID is the unique identifier for the alert.
	ID string `json:"id"`
	// CameraID references the camera the detection happened on.
	CameraID string `json:"cameraId"`
	// DetectedAt is the detection timestamp.
	DetectedAt time.Time `json:"detectedAt"`
	// Description is a free-text summary of the detection.
	Description string `json:"description"`
	// SnapshotURL optionally points at a captured frame.
	SnapshotURL string `json:"snapshotUrl,omitempty"`
	// Metadata holds an opaque key-value payload supplied by the detector.
	Metadata map[string]any `json:"metadata,omitempty"`
	// CameraName and CameraLocation are joined in on reads for display;
	// they are empty when the camera no longer exists.
	CameraName     string `json:"cameraName,omitempty"`
	CameraLocation string `json:"cameraLocation,omitempty"`
}

// StreamStatus is the per-camera status entry reported by the stream worker.
type StreamStatus struct {
	// FPS is the current processing rate.
	FPS float64 `json:"fps"`
	// FrameCount is the number of frames processed since start.
	FrameCount int64 `json:"frame_count"`
	// Uptime is the stream lifetime in seconds.
	Uptime float64 `json:"uptime"`
}

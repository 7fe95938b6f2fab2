// Package cameras talks to the CIC Tenerife camera portal: fetching pages,
// downloading snapshot images, and repairing the portal's relative iframe
// URLs into absolute ones.
package cameras

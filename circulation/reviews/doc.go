// Package reviews lets approved members write about items and admins remove reviews.
// Reviews are independent of the circulation state of the item.
package reviews

// Package membership manages who may take part in circulation.
//
// Members register as pending and an admin approves, rejects or blocks them. Members whose id is
// in the bootstrap admin list are approved admins from their first registration. Every admin
// action is appended to the admin log, and the affected member is notified.
package membership

// Package canbus provides core types and utilities for exchanging messages
// on a Controller Area Network (CAN) bus on Linux via the SocketCAN raw
// socket family (PF_CAN, SOCK_RAW, CAN_RAW).
//
// It includes:
//   - A Frame type with bit-exact Classic CAN (16-byte) and CAN FD (72-byte)
//     marshaling matching the kernel's can_frame/canfd_frame layout
//   - A tagged Filter variant for ID-based receive filtering
//   - An Adapter abstraction with a Linux SocketCAN implementation and an
//     in-memory loopback implementation for tests
//   - A Messenger that glues adapter, filter, and an optional DBC encoder/
//     decoder (see the dbc subpackage) into send and listen operations
package canbus

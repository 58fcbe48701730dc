package handlers

import (
	"net/http"
	"strconv"

	"adcontrol/internal/models"
	dbconfig "adcontrol/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OperatorRequest represents the request body for creating/updating an operator
type OperatorRequest struct {
	Name       *string `json:"name"`
	EmployeeID *string `json:"employee_id"`
	ProjectID  *uint   `json:"project_id"`
	Role       *string `json:"role"`
	Status     *string `json:"status"`
}

// ListOperators returns all operators with their project preloaded
func ListOperators(c *gin.Context) {
	query := dbconfig.DB.Model(&models.Operator{}).Preload("Project")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}

	var operators []models.Operator
	if err := query.Order("id").Find(&operators).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, operators)
}

// GetOperator returns a specific operator by ID
func GetOperator(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var operator models.Operator
	if err := dbconfig.DB.Preload("Project").First(&operator, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, operator)
}

// CreateOperator creates a new operator
func CreateOperator(c *gin.Context) {
	var request OperatorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Name == nil || request.EmployeeID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and employee_id are required"})
		return
	}

	// 工号全局唯一
	var existing models.Operator
	if err := dbconfig.DB.Where("employee_id = ?", *request.EmployeeID).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Employee ID already exists"})
		return
	}

	if request.ProjectID != nil {
		var project models.Project
		if err := dbconfig.DB.First(&project, *request.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id: Project not found"})
			return
		}
	}

	operator := models.Operator{
		Name:       *request.Name,
		EmployeeID: *request.EmployeeID,
		ProjectID:  request.ProjectID,
		Role:       "operator",
		Status:     "active",
	}
	if request.Role != nil {
		operator.Role = *request.Role
	}
	if request.Status != nil {
		operator.Status = *request.Status
	}

	if err := dbconfig.DB.Create(&operator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, operator)
}

// UpdateOperator updates an existing operator
func UpdateOperator(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var request OperatorRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var operator models.Operator
	if err := dbconfig.DB.First(&operator, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	if request.EmployeeID != nil && *request.EmployeeID != operator.EmployeeID {
		var existing models.Operator
		if err := dbconfig.DB.Where("employee_id = ?", *request.EmployeeID).First(&existing).Error; err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "Employee ID already exists"})
			return
		}
		operator.EmployeeID = *request.EmployeeID
	}
	if request.ProjectID != nil {
		var project models.Project
		if err := dbconfig.DB.First(&project, *request.ProjectID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project_id: Project not found"})
			return
		}
		operator.ProjectID = request.ProjectID
	}
	if request.Name != nil {
		operator.Name = *request.Name
	}
	if request.Role != nil {
		operator.Role = *request.Role
	}
	if request.Status != nil {
		operator.Status = *request.Status
	}

	if err := dbconfig.DB.Save(&operator).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, operator)
}

// DeleteOperator deletes an operator if no spend reports reference them
func DeleteOperator(c *gin.Context) {
	id, ok := ParseIDParam(c, "id")
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	var spendCount int64
	if err := dbconfig.DB.Model(&models.AdSpendDaily{}).Where("operator_id = ?", id).Count(&spendCount).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check spend dependencies"})
		return
	}
	if spendCount > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Cannot delete operator: there are spend reports depending on this operator",
			"spend_count": spendCount,
		})
		return
	}

	if err := dbconfig.DB.Delete(&models.Operator{}, id).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Operator deleted successfully"})
}

// OperatorSalaryRequest represents the request body for recording a monthly salary
type OperatorSalaryRequest struct {
	OperatorID   uint            `json:"operator_id" binding:"required"`
	Year         int             `json:"year" binding:"required"`
	Month        int             `json:"month" binding:"required"`
	SalaryAmount decimal.Decimal `json:"salary_amount" binding:"required"`
	BonusAmount  decimal.Decimal `json:"bonus_amount"`
	Description  string          `json:"description"`
}

// CreateOperatorSalary records an operator's salary for a month.
// 同一投手同一月份重复提交时覆盖原记录
func CreateOperatorSalary(c *gin.Context) {
	var request OperatorSalaryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if request.Month < 1 || request.Month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}

	var operator models.Operator
	if err := dbconfig.DB.First(&operator, request.OperatorID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid operator_id: Operator not found"})
		return
	}

	total := request.SalaryAmount.Add(request.BonusAmount)

	var salary models.OperatorSalary
	err := dbconfig.DB.Where("operator_id = ? AND year = ? AND month = ?",
		request.OperatorID, request.Year, request.Month).First(&salary).Error
	if err == nil {
		salary.SalaryAmount = request.SalaryAmount
		salary.BonusAmount = request.BonusAmount
		salary.TotalAmount = total
		salary.Description = request.Description
		if err := dbconfig.DB.Save(&salary).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, salary)
		return
	}

	salary = models.OperatorSalary{
		OperatorID:   request.OperatorID,
		Year:         request.Year,
		Month:        request.Month,
		SalaryAmount: request.SalaryAmount,
		BonusAmount:  request.BonusAmount,
		TotalAmount:  total,
		Description:  request.Description,
	}
	if err := dbconfig.DB.Create(&salary).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, salary)
}

// ListOperatorSalaries returns salary records, filterable by operator and month
func ListOperatorSalaries(c *gin.Context) {
	query := dbconfig.DB.Model(&models.OperatorSalary{}).Preload("Operator")
	if operatorID := c.Query("operator_id"); operatorID != "" {
		query = query.Where("operator_id = ?", operatorID)
	}
	if year := c.Query("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			query = query.Where("year = ?", y)
		}
	}
	if month := c.Query("month"); month != "" {
		if m, err := strconv.Atoi(month); err == nil {
			query = query.Where("month = ?", m)
		}
	}

	var salaries []models.OperatorSalary
	if err := query.Order("year desc, month desc, operator_id").Find(&salaries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, salaries)
}
